package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/feed"
	"github.com/yatube/yatube/internal/render"
	"github.com/yatube/yatube/internal/storage"
	"github.com/yatube/yatube/internal/subscription"
	"github.com/yatube/yatube/pkg/logging"
)

// Router wires the feed composer, subscription manager, page cache and
// collaborators into HTTP routes.
type Router struct {
	db        *db.DB
	posts     *db.PostRepository
	groups    *db.GroupRepository
	users     *db.UserRepository
	comments  *db.CommentRepository
	composer  *feed.Composer
	subs      *subscription.Manager
	pageCache *cache.PageCache
	redis     *cache.Cache
	renderer  render.Renderer
	uploader  storage.Uploader
	auth      Auth
	logger    *zap.Logger
}

// Options carries the optional collaborators a Router can be built with.
type Options struct {
	Auth      Auth
	Renderer  render.Renderer
	Uploader  storage.Uploader
	Redis     *cache.Cache
	PageCache *cache.PageCache
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, opts Options) *Router {
	repo := db.NewRepository(database.DB)

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewJSONRenderer()
	}
	pageCache := opts.PageCache
	if pageCache == nil {
		pageCache = cache.NewPageCache(opts.Redis, cache.DefaultPageTTL)
	}

	return &Router{
		db:        database,
		posts:     db.NewPostRepository(repo),
		groups:    db.NewGroupRepository(repo),
		users:     db.NewUserRepository(repo),
		comments:  db.NewCommentRepository(repo),
		composer:  feed.NewComposer(repo),
		subs:      subscription.NewManager(repo),
		pageCache: pageCache,
		redis:     opts.Redis,
		renderer:  renderer,
		uploader:  opts.Uploader,
		auth:      opts.Auth,
		logger:    logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(r.authMiddleware())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Feed views
	engine.GET("/", r.index)
	engine.GET("/group/:slug", r.groupFeed)
	engine.GET("/profile/:username", r.profileFeed)
	engine.GET("/posts/:id", r.postDetail)

	// Authenticated actions
	authed := engine.Group("/", requireUser)
	authed.GET("/follow", r.followingFeed)
	authed.POST("/create", r.createPost)
	authed.POST("/posts/:id/edit", r.editPost)
	authed.POST("/posts/:id/comment", r.addComment)
	authed.GET("/profile/:username/follow", r.followAuthor)
	authed.GET("/profile/:username/unfollow", r.unfollowAuthor)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "FAIL",
			"service": "yatube-api",
		})
		return
	}

	cacheStatus := "disabled"
	if r.redis != nil {
		cacheStatus = "OK"
		if err := r.redis.Health(c.Request.Context()); err != nil {
			cacheStatus = "FAIL"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "yatube-api",
		"cache":   cacheStatus,
	})
}
