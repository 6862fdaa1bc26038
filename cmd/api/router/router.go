package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"post-pilot/cmd/api/auth"
	"post-pilot/cmd/api/handlers"
	"post-pilot/cmd/api/middleware"
	"post-pilot/cmd/api/services"
	_ "post-pilot/docs"
	"post-pilot/metrics"
)

// Deps 는 라우터가 사용하는 서비스 묶음이다. main 과 테스트에서 조립한다.
type Deps struct {
	Flows     *services.FlowService
	Posts     *services.PostService
	Dashboard *services.DashboardService
	Plans     *services.PlanService
	Tokens    middleware.TokenParser

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	// Health 는 하위 의존성(MongoDB 등) 상태를 확인한다. nil 이면 항상 ok.
	Health func(ctx context.Context) error
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), d.Metrics.GinMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if d.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := d.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	api.GET("/plans", handlers.ListPlansHandler(d.Plans))

	authed := api.Group("", middleware.RequireUser(d.Tokens))
	{
		authed.POST("/flows/generate", handlers.GeneratePostHandler(d.Flows))
		authed.POST("/flows/regenerate", handlers.RegeneratePostHandler(d.Flows))
		authed.POST("/flows/summarize", handlers.SummarizePostsHandler(d.Flows))

		authed.GET("/posts", handlers.ListPostsHandler(d.Posts))
		authed.POST("/posts", handlers.SavePostHandler(d.Posts))
		authed.GET("/posts/:id", handlers.GetPostHandler(d.Posts))
		authed.PATCH("/posts/:id", handlers.UpdatePostHandler(d.Posts))
		authed.DELETE("/posts/:id", handlers.DeletePostHandler(d.Posts))
		authed.POST("/posts/:id/regenerate", handlers.RegenerateSavedPostHandler(d.Posts))
		authed.GET("/posts/:id/preview", handlers.PreviewPostHandler(d.Posts))
		authed.POST("/posts/:id/schedule", handlers.SchedulePostHandler(d.Posts))
		authed.DELETE("/posts/:id/schedule", handlers.UnschedulePostHandler(d.Posts))
		authed.GET("/calendar", handlers.CalendarHandler(d.Posts))

		authed.GET("/dashboard", handlers.DashboardHandler(d.Dashboard))
	}

	// 요금제 변경은 결제 처리 쪽(admin 토큰)만 호출한다
	admin := authed.Group("/admin", middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/users/:uid/plan", handlers.SetUserPlanHandler(d.Plans))
	}

	return r
}
