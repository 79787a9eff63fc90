package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
)

const maxImageSize = 512_000

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

// postDetail serves one post with its comments, newest first.
func (r *Router) postDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := r.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}
	comments, err := r.comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}

	commentList := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		entry := gin.H{
			"id":       comment.ID,
			"text":     comment.Text,
			"pub_date": comment.PubDate,
		}
		if comment.Author != nil {
			entry["author"] = comment.Author.Username
		}
		commentList = append(commentList, entry)
	}

	detail := gin.H{
		"id":       post.ID,
		"title":    post.Title,
		"text":     post.Text,
		"preview":  post.String(),
		"image":    post.Image,
		"pub_date": post.PubDate,
	}
	if post.Author != nil {
		detail["author"] = post.Author.Username
	}
	if post.Group != nil {
		detail["group"] = post.Group.Slug
	}

	r.renderPage(c, "posts/post_detail", gin.H{
		"post":     detail,
		"comments": commentList,
	})
}

// createPost publishes a new post for the authenticated user and
// redirects to their profile feed. The image, when provided, is handed
// to the storage collaborator before the row is written so a stored post
// always carries a resolvable image reference.
func (r *Router) createPost(c *gin.Context) {
	user, _ := CurrentUser(c)

	post := &models.Post{
		Title:    c.PostForm("title"),
		Text:     c.PostForm("text"),
		AuthorID: user.ID,
	}

	if groupField := c.PostForm("group_id"); groupField != "" {
		groupID, err := strconv.ParseInt(groupField, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group"})
			return
		}
		group, err := r.groups.GetByID(c.Request.Context(), groupID)
		if err != nil {
			r.fail(c, err)
			return
		}
		post.GroupID = sql.NullInt64{Int64: group.ID, Valid: true}
	}

	if file, err := c.FormFile("image"); err == nil {
		if r.uploader == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image uploads are not enabled"})
			return
		}
		if file.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
			return
		}
		defer src.Close()

		key := storage.PostImageKey(file.Filename)
		location, err := r.uploader.Upload(c.Request.Context(), key, src, file.Size,
			file.Header.Get("Content-Type"))
		if err != nil {
			r.logger.Error("image upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
			return
		}
		post.Image = location
	}

	if err := r.posts.Create(c.Request.Context(), post); err != nil {
		r.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+user.Username)
}

// editPost updates a post's fields. Only the author may edit; anyone
// else is bounced back to the post detail view with the post untouched.
func (r *Router) editPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	user, _ := CurrentUser(c)

	post, err := r.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}

	detailPath := "/posts/" + strconv.FormatInt(id, 10)
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, detailPath)
		return
	}

	fields := map[string]interface{}{}
	if title, exists := c.GetPostForm("title"); exists {
		fields["title"] = title
	}
	if text, exists := c.GetPostForm("text"); exists {
		fields["text"] = text
	}
	if groupField, exists := c.GetPostForm("group_id"); exists {
		if groupField == "" {
			fields["group_id"] = nil
		} else {
			groupID, err := strconv.ParseInt(groupField, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group"})
				return
			}
			group, err := r.groups.GetByID(c.Request.Context(), groupID)
			if err != nil {
				r.fail(c, err)
				return
			}
			fields["group_id"] = group.ID
		}
	}

	if err := r.posts.Update(c.Request.Context(), id, fields); err != nil {
		r.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, detailPath)
}

// addComment appends a comment to a post and returns to its detail view.
func (r *Router) addComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	user, _ := CurrentUser(c)

	// The post must exist before a comment can hang off it.
	if _, err := r.posts.GetByID(c.Request.Context(), id); err != nil {
		r.fail(c, err)
		return
	}

	text := c.PostForm("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		return
	}

	comment := &models.Comment{
		PostID:   sql.NullInt64{Int64: id, Valid: true},
		AuthorID: user.ID,
		Text:     text,
	}
	if err := r.comments.Create(c.Request.Context(), comment); err != nil {
		r.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/posts/"+strconv.FormatInt(id, 10))
}
