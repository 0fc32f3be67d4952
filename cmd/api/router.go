package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"booknest/internal/shared/middleware"
	"booknest/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
		middleware.ClientIPMiddleware(),
		middleware.SessionMiddleware(c.JWTManager),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBookRoutes(v1, c)
		setupVoteRoutes(v1, c)
		setupCommentRoutes(v1, c)
		setupReviewRoutes(v1, c)
	}

	return router
}

// anonymousLimit throttles callers without a session on the endpoints they can write to
func anonymousLimit(c *container.Container) gin.HandlerFunc {
	if !c.Config.RateLimit.Enabled || c.Cache == nil {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return middleware.AnonymousRateLimit(c.Cache, c.Config.RateLimit.AnonymousLimit, c.Config.RateLimit.Window)
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", middleware.RequireSession(), c.BookHandler.CreateBook)
		books.POST("/preview", middleware.RequireSession(), c.BookHandler.PreviewLink)
		books.GET("/:id", c.BookHandler.GetBookDetail)
		books.DELETE("/:id", middleware.RequireSession(), c.BookHandler.DeleteBook)
	}
}

// ========================================
// VOTE ROUTES
// ========================================
func setupVoteRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books/:id")
	{
		books.POST("/vote", anonymousLimit(c), c.VoteHandler.CastVote)
		books.GET("/votes", c.VoteHandler.GetTally)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books/:id/comments")
	{
		books.GET("", c.CommentHandler.ListComments)
		books.POST("", middleware.RequireSession(), c.CommentHandler.CreateComment)
	}

	comments := v1.Group("/comments/:id")
	{
		comments.DELETE("", middleware.RequireSession(), c.CommentHandler.DeleteComment)
		comments.POST("/like", anonymousLimit(c), c.CommentHandler.ToggleLike)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/books/:id")
	{
		reviews.GET("/reviews", c.ReviewHandler.ListReviews)
		reviews.POST("/reviews", middleware.RequireSession(), c.ReviewHandler.UpsertReview)
		reviews.DELETE("/reviews", middleware.RequireSession(), c.ReviewHandler.DeleteReview)
		reviews.GET("/rating", c.ReviewHandler.GetRatingSummary)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
