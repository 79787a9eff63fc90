package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/feed"
	"github.com/yatube/yatube/internal/models"
)

// feedEntry is the wire shape of a post in a feed page.
type feedEntry struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Preview string `json:"preview"`
	Author  string `json:"author"`
	Group   string `json:"group,omitempty"`
	Image   string `json:"image,omitempty"`
	PubDate string `json:"pub_date"`
}

type feedPage struct {
	Posts   []feedEntry `json:"posts"`
	Page    int         `json:"page"`
	Total   int64       `json:"total"`
	HasNext bool        `json:"has_next"`
}

func newFeedPage(page *feed.Page) feedPage {
	entries := make([]feedEntry, 0, len(page.Posts))
	for _, post := range page.Posts {
		entry := feedEntry{
			ID:      post.ID,
			Title:   post.Title,
			Text:    post.Text,
			Preview: post.String(),
			Image:   post.Image,
			PubDate: post.PubDate.UTC().Format(time.RFC3339),
		}
		if post.Author != nil {
			entry.Author = post.Author.Username
		}
		if post.Group != nil {
			entry.Group = post.Group.Slug
		}
		entries = append(entries, entry)
	}
	return feedPage{
		Posts:   entries,
		Page:    page.Number,
		Total:   page.Total,
		HasNext: page.HasNext,
	}
}

func pageNumber(c *gin.Context) int {
	number, err := strconv.Atoi(c.Query("page"))
	if err != nil || number < 1 {
		return 1
	}
	return number
}

func (r *Router) renderPage(c *gin.Context, view string, data interface{}) {
	body, err := r.renderer.Render(view, data)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.Data(http.StatusOK, r.renderer.ContentType(), body)
}

// index serves the global feed. The first page is served through the
// single-slot page cache; new posts become visible once the TTL lapses.
func (r *Router) index(c *gin.Context) {
	number := pageNumber(c)

	if number == 1 {
		body, err := r.pageCache.GetOrCompute(func() ([]byte, error) {
			page, err := r.composer.Global(c.Request.Context(), 1)
			if err != nil {
				return nil, err
			}
			return r.renderer.Render("posts/index", newFeedPage(page))
		})
		if err != nil {
			r.fail(c, err)
			return
		}
		c.Data(http.StatusOK, r.renderer.ContentType(), body)
		return
	}

	page, err := r.composer.Global(c.Request.Context(), number)
	if err != nil {
		r.fail(c, err)
		return
	}
	r.renderPage(c, "posts/index", newFeedPage(page))
}

// groupFeed serves the posts of one group.
func (r *Router) groupFeed(c *gin.Context) {
	page, group, err := r.composer.Group(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		r.fail(c, err)
		return
	}
	r.renderPage(c, "posts/group_list", gin.H{
		"group": gin.H{
			"title":       group.Title,
			"slug":        group.Slug,
			"description": group.Description,
		},
		"page_obj": newFeedPage(page),
	})
}

// profileFeed serves one author's posts.
func (r *Router) profileFeed(c *gin.Context) {
	page, author, err := r.composer.Profile(c.Request.Context(), c.Param("username"), pageNumber(c))
	if err != nil {
		r.fail(c, err)
		return
	}

	following := false
	if user, ok := CurrentUser(c); ok {
		following, err = r.subs.IsFollowing(c.Request.Context(), user.ID, author.ID)
		if err != nil {
			r.fail(c, err)
			return
		}
	}

	r.renderPage(c, "posts/profile", gin.H{
		"author":    profileContext(author),
		"following": following,
		"page_obj":  newFeedPage(page),
	})
}

// followingFeed serves the posts of every author the user follows.
func (r *Router) followingFeed(c *gin.Context) {
	user, _ := CurrentUser(c)
	page, err := r.composer.Following(c.Request.Context(), user.ID, pageNumber(c))
	if err != nil {
		r.fail(c, err)
		return
	}
	r.renderPage(c, "posts/follow", newFeedPage(page))
}

func profileContext(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
	}
}
