package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

// LoginPath is where unauthenticated requests are sent, carrying the
// originally requested path in the "next" parameter.
const LoginPath = "/auth/login"

const userContextKey = "user"

// Auth resolves the authenticated user from a request. Session and
// cookie mechanics live entirely behind this interface; the core only
// ever sees a resolved user or nothing.
type Auth interface {
	CurrentUser(r *http.Request) (*models.User, error)
}

// RemoteUserAuth trusts an authenticating reverse proxy to pass the
// verified username in a request header, the same contract as Django's
// REMOTE_USER middleware. Anything session- or cookie-based stays in the
// proxy.
type RemoteUserAuth struct {
	users  *db.UserRepository
	header string
}

// NewRemoteUserAuth creates an Auth that resolves users from the
// X-Forwarded-User header.
func NewRemoteUserAuth(users *db.UserRepository) *RemoteUserAuth {
	return &RemoteUserAuth{users: users, header: "X-Forwarded-User"}
}

// CurrentUser implements Auth
func (a *RemoteUserAuth) CurrentUser(r *http.Request) (*models.User, error) {
	username := r.Header.Get(a.header)
	if username == "" {
		return nil, nil
	}
	user, err := a.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// CurrentUser retrieves the authenticated user from the Gin context if
// present.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok && user != nil
}

// authMiddleware resolves the current user once per request and stashes
// it in the context for handlers.
func (r *Router) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.auth != nil {
			if user, err := r.auth.CurrentUser(c.Request); err == nil && user != nil {
				c.Set(userContextKey, user)
			}
		}
		c.Next()
	}
}

// requireUser redirects anonymous requests to the login page with a
// continuation back to the requested path.
func requireUser(c *gin.Context) {
	if _, ok := CurrentUser(c); ok {
		c.Next()
		return
	}
	next := url.QueryEscape(c.Request.URL.Path)
	c.Redirect(http.StatusFound, LoginPath+"?next="+next)
	c.Abort()
}
