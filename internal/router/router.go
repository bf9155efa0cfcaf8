package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/nanda2463/mindmirror-ai--5/internal/config"
	"github.com/nanda2463/mindmirror-ai--5/internal/handlers"
	"github.com/nanda2463/mindmirror-ai--5/internal/services"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, focus *services.FocusService) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("mindmirror_session", store))

	router.Use(UserLoaderMiddleware())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log, focus)
	focusHandler := handlers.NewFocusHandler(log, focus)
	sessionsHandler := handlers.NewSessionsHandler(log)
	userHandler := handlers.NewUserHandler(log, focus)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	api.Use(CSRFProtection())

	api.GET("/auth/csrf", CSRFToken)
	api.POST("/auth/register", limiter, authHandler.Register)
	api.POST("/auth/login", limiter, authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	authorized := api.Group("/")
	authorized.Use(AuthRequired())
	{
		focusRoutes := authorized.Group("/focus")
		{
			focusRoutes.GET("", focusHandler.State)
			focusRoutes.POST("/events", focusHandler.IngestEvents)
			focusRoutes.POST("/start", focusHandler.Start)
			focusRoutes.POST("/end", focusHandler.End)
			focusRoutes.POST("/toggle", focusHandler.Toggle)
			focusRoutes.POST("/reset", focusHandler.Reset)
		}

		sessionRoutes := authorized.Group("/sessions")
		{
			sessionRoutes.GET("", sessionsHandler.List)
			sessionRoutes.GET("/summary", sessionsHandler.Summary)
			sessionRoutes.GET("/trend", sessionsHandler.Trend)
		}

		userRoutes := authorized.Group("/user")
		{
			userRoutes.GET("", userHandler.Me)
			userRoutes.POST("/update-info", userHandler.UpdateInfo)
			userRoutes.POST("/update-password", userHandler.UpdatePassword)
			userRoutes.POST("/delete", userHandler.DeleteAccount)
		}
	}

	return router
}
