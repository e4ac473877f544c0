package router

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/config"
	"github.com/jshaha/cognitive-load-annotation/internal/handlers"
	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

// Setup builds the gin engine with the full middleware chain and all routes.
func Setup(log *zap.Logger, ratings *models.RatingConfig) *gin.Engine {
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
	router.Use(sessions.Sessions("cogload_session", store))

	// These need the session to be initialized first.
	router.Use(NonceMiddleware())
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log))

	router.Use(func(c *gin.Context) {
		nonce, _ := c.Get(CspNonceContextKey)
		csp := fmt.Sprintf(
			"script-src 'self' 'nonce-%s'; style-src 'self' 'unsafe-inline'",
			nonce,
		)
		c.Header("Content-Security-Policy", csp)
		c.Next()
	})

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	router.Static("/assets", "./assets")
	router.LoadHTMLGlob("templates/*.tmpl")

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log)
	dashboardHandler := handlers.NewDashboardHandler(log)
	articleHandler := handlers.NewArticleHandler(log, ratings)
	adminHandler := handlers.NewAdminHandler(log)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	router.GET("/", func(c *gin.Context) {
		if _, loggedIn := c.Get(UserContextKey); loggedIn {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, "/login")
	})

	router.GET("/login", authHandler.ShowLoginPage)
	router.POST("/login", limiter, authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/register", authHandler.ShowRegisterPage)
	router.POST("/register", limiter, authHandler.Register)

	authorized := router.Group("/")
	authorized.Use(AuthRequired())
	{
		authorized.GET("/dashboard", dashboardHandler.Show)
		authorized.GET("/article/next", articleHandler.Next)
		authorized.GET("/article/:id", articleHandler.View)
		authorized.POST("/article/:id/submit", articleHandler.Submit)
	}

	admin := router.Group("/admin")
	admin.Use(AdminRequired())
	{
		admin.GET("", adminHandler.Dashboard)
		admin.GET("/upload", adminHandler.ShowUpload)
		admin.POST("/upload", adminHandler.Upload)
		admin.GET("/articles", adminHandler.Articles)
		admin.GET("/article/:id/annotations", adminHandler.Annotations)
		admin.GET("/export", adminHandler.ExportCSV)
	}

	return router
}
