// router.go - Builds the Gin engine and registers every route

package handlers // Declares the package name

import ( // Import required packages
	"net/http"

	"go-blog-backend/auth"       // Registration, login and tokens
	"go-blog-backend/config"     // Project config
	"go-blog-backend/events"     // Content event bus and websocket stream
	"go-blog-backend/jobs"       // Purge job
	"go-blog-backend/metrics"    // Prometheus collectors
	"go-blog-backend/middleware" // Authentication and request logging
	"go-blog-backend/repository" // Users, posts and comments
	"go-blog-backend/validation" // Payload rules

	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Deps is everything the handlers need. main.go and the tests build one.
type Deps struct {
	Config    *config.Config
	Log       *logrus.Logger
	Store     *repository.Store
	Auth      *auth.Service
	Tokens    *auth.TokenService
	Validator *validation.Engine
	Bus       *events.Bus
	Purger    *jobs.Purger
}

// NewRouter wires the middleware chain and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New() // Create a new Gin router without the default logger
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		metrics.Middleware(),
		gin.Recovery(),
	)

	authH := &AuthHandler{service: d.Auth, users: d.Store.Users}
	postH := &PostHandler{posts: d.Store.Posts, validator: d.Validator, bus: d.Bus, log: d.Log}
	commentH := &CommentHandler{comments: d.Store.Comments, validator: d.Validator, bus: d.Bus, log: d.Log}
	adminH := &AdminHandler{purger: d.Purger}
	guard := middleware.AuthMiddleware(d.Tokens)

	// Public routes (no authentication required)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authH.Register) // Public route: user registration
		authRoutes.POST("/login", authH.Login)       // Public route: user login
		authRoutes.GET("/me", guard, authH.Me)       // Protected: current user
	}

	// Protected routes (require a bearer token)
	posts := r.Group("/posts", guard)
	{
		posts.POST("", postH.Create)
		posts.GET("", postH.List)
		posts.GET("/:id", postH.Get)
		posts.PATCH("/:id", postH.Update)
		posts.DELETE("/:id", postH.Delete)
	}

	comments := r.Group("/comments", guard)
	{
		comments.POST("", commentH.Create)
		comments.POST("/", commentH.Create)
		comments.DELETE("/:id", commentH.Delete)
	}

	// Test support: wipe tables and restart id sequences
	if d.Config.ResetEnabled {
		authRoutes.DELETE("/reset", authH.Reset)
		posts.DELETE("/reset", postH.Reset)
		comments.DELETE("/reset", commentH.Reset)
	}

	// Admin routes (require the admin role)
	admin := r.Group("/admin", middleware.AdminMiddleware(d.Tokens))
	{
		admin.POST("/purge", adminH.Purge)
	}

	r.GET("/events/ws", guard, gin.WrapH(events.NewWebsocketHandler(d.Bus, d.Log)))
	return r
}
