package feed

import (
	"context"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// Page is one slice of an ordered feed. Pages are 1-indexed; a page past
// the end of the feed is empty, never an error.
type Page struct {
	Posts   []*models.Post
	Number  int
	Total   int64
	HasNext bool
}

// Composer builds the four feed views. Every view is a read-only query
// ordered newest first with ids breaking timestamp ties.
type Composer struct {
	posts   *db.PostRepository
	groups  *db.GroupRepository
	users   *db.UserRepository
	follows *db.FollowRepository
	logger  *zap.Logger
}

// NewComposer creates a new feed composer
func NewComposer(repo *db.Repository) *Composer {
	return &Composer{
		posts:   db.NewPostRepository(repo),
		groups:  db.NewGroupRepository(repo),
		users:   db.NewUserRepository(repo),
		follows: db.NewFollowRepository(repo),
		logger:  logging.GetLogger().With(zap.String("component", "feed-composer")),
	}
}

func (c *Composer) page(ctx context.Context, filter db.PostFilter, number int) (*Page, error) {
	if number < 1 {
		number = 1
	}

	total, err := c.posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	offset := (number - 1) * PageSize
	posts := []*models.Post{}
	if int64(offset) < total {
		posts, err = c.posts.List(ctx, filter, offset, PageSize)
		if err != nil {
			return nil, err
		}
	}

	return &Page{
		Posts:   posts,
		Number:  number,
		Total:   total,
		HasNext: int64(offset+PageSize) < total,
	}, nil
}

// Global returns a page of all posts, unfiltered.
func (c *Composer) Global(ctx context.Context, number int) (*Page, error) {
	return c.page(ctx, db.PostFilter{}, number)
}

// Group returns a page of the group's posts plus the group itself for
// display context. Unknown slugs surface db.ErrNotFound.
func (c *Composer) Group(ctx context.Context, slug string, number int) (*Page, *models.Group, error) {
	group, err := c.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	page, err := c.page(ctx, db.PostFilter{GroupID: &group.ID}, number)
	if err != nil {
		return nil, nil, err
	}
	return page, group, nil
}

// Profile returns a page of the author's posts plus the author for
// display context. Unknown usernames surface db.ErrNotFound.
func (c *Composer) Profile(ctx context.Context, username string, number int) (*Page, *models.User, error) {
	author, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	page, err := c.page(ctx, db.PostFilter{AuthorID: &author.ID}, number)
	if err != nil {
		return nil, nil, err
	}
	return page, author, nil
}

// Following returns a page of posts by the authors the user follows.
// Authentication happens upstream; the caller passes a resolved user id.
func (c *Composer) Following(ctx context.Context, userID int64, number int) (*Page, error) {
	authorIDs, err := c.follows.AuthorIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.page(ctx, db.PostFilter{AuthorIDs: authorIDs}, number)
}
