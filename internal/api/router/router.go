package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"manage-rtc/backend/config"
	"manage-rtc/backend/internal/api/handler"
	"manage-rtc/backend/internal/api/middleware"
	"manage-rtc/backend/pkg/jwt"
	"manage-rtc/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── HR API ──
	hr := r.Group("/api/hr")
	hr.Use(middleware.RateLimit(rdb, 300, time.Minute))
	hr.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		resignations := hr.Group("/resignations")
		{
			// 读接口全角色开放，员工看自己公司的数据
			resignations.GET("/stats", h.Resignation.Stats)
			resignations.GET("", h.Resignation.List)
			resignations.GET("/:id", h.Resignation.Get)

			// 提交：employee 仅限本人（Service 层鉴权），其余角色可代提交
			resignations.POST("", h.Resignation.Create)

			// 审批：manager 仅限名下员工（Service 层鉴权）
			resignations.POST("/:id/approve", middleware.RoleAuth("manager", "hr", "admin", "superadmin"), h.Resignation.Approve)
			resignations.POST("/:id/reject", middleware.RoleAuth("manager", "hr", "admin", "superadmin"), h.Resignation.Reject)

			// 维护类操作仅 HR/管理员
			resignations.PUT("/:id", middleware.RoleAuth("hr", "admin", "superadmin"), h.Resignation.Update)
			resignations.DELETE("", middleware.RoleAuth("hr", "admin", "superadmin"), h.Resignation.Delete)
			resignations.POST("/:id/process", middleware.RoleAuth("hr", "admin", "superadmin"), h.Resignation.Process)
			resignations.POST("/process-due", middleware.RoleAuth("admin", "superadmin"), h.Resignation.ProcessDue)
		}

		departments := hr.Group("/departments")
		{
			departments.GET("", h.Resignation.Departments)
			departments.GET("/:id/employees", h.Resignation.Employees)
		}
	}

	return r
}
