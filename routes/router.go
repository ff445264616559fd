package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Yardanz/tutor-site/config"
	"github.com/Yardanz/tutor-site/controllers"
	"github.com/Yardanz/tutor-site/middleware"
	"github.com/Yardanz/tutor-site/services"
	"github.com/Yardanz/tutor-site/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, files *utils.FileStore) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// CSRF defense for the cookie-authenticated surface; runs before any handler.
	r.Use(middleware.SameOriginRequired())

	postService := services.NewPostService(db, files)
	attachmentService := services.NewAttachmentService(db, files)
	feedService := services.NewFeedService(db)

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(postService)
	attachmentController := controllers.NewAttachmentController(attachmentService)
	publicController := controllers.NewPublicController(feedService)
	uploadsController := controllers.NewUploadsController(files)

	// Public pages and assets
	r.Static("/assets", "./static/assets")
	r.GET("/", servePage("index.html"))
	r.GET("/materials", servePage("materials.html"))
	r.GET("/materials/:slug", servePage("material.html"))
	r.GET("/privacy", servePage("privacy.html"))

	r.GET("/uploads/*path", uploadsController.Serve)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Admin pages; the login page stays outside the gate.
	r.GET("/admin/login", servePage("admin-login.html"))
	adminPages := r.Group("/admin")
	adminPages.Use(middleware.AdminRequired())
	adminPages.GET("", servePage("admin.html"))
	adminPages.GET("/new", servePage("admin-new.html"))
	adminPages.GET("/edit/:id", servePage("admin-edit.html"))

	api := r.Group("/api")

	adminAPI := api.Group("/admin")
	adminAPI.POST("/login", authController.Login)

	protected := adminAPI.Group("")
	protected.Use(middleware.AdminRequired())
	protected.POST("/logout", authController.Logout)
	protected.GET("/posts", postController.List)
	protected.POST("/posts", postController.Create)
	protected.GET("/posts/:id", postController.Get)
	protected.PUT("/posts/:id", postController.Update)
	protected.DELETE("/posts/:id", postController.Delete)
	protected.PATCH("/posts/:id/publish", postController.Publish)
	protected.PATCH("/posts/:id/unpublish", postController.Unpublish)
	protected.PATCH("/posts/:id/cover", postController.SetCover)
	protected.POST("/posts/:id/attachments", attachmentController.Upload)
	protected.DELETE("/attachments/:id", attachmentController.Delete)

	publicAPI := api.Group("/public")
	publicAPI.GET("/posts", publicController.Feed)
	publicAPI.GET("/posts/:slug", publicController.GetBySlug)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.JSONError(ctx, http.StatusNotFound, "API route not found.")
			return
		}
		// SPA-style fallback for remaining page paths
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}

func servePage(name string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.File("./static/" + name)
	}
}
