package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/subscription"
)

// followAuthor subscribes the authenticated user to an author's posts
// and returns to the profile. Following yourself is declined without an
// error page; repeated follows leave a single edge.
func (r *Router) followAuthor(c *gin.Context) {
	user, _ := CurrentUser(c)
	username := c.Param("username")

	author, err := r.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		r.fail(c, err)
		return
	}

	if err := r.subs.Follow(c.Request.Context(), user.ID, author.ID); err != nil {
		if !errors.Is(err, subscription.ErrSelfFollow) {
			r.fail(c, err)
			return
		}
		r.logger.Debug("self-follow declined", zap.String("username", username))
	}

	c.Redirect(http.StatusFound, "/profile/"+username)
}

// unfollowAuthor removes the subscription if present and returns to the
// profile. Unfollowing someone you never followed is a no-op.
func (r *Router) unfollowAuthor(c *gin.Context) {
	user, _ := CurrentUser(c)
	username := c.Param("username")

	author, err := r.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		r.fail(c, err)
		return
	}

	if err := r.subs.Unfollow(c.Request.Context(), user.ID, author.ID); err != nil {
		r.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+username)
}
