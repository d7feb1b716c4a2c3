package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"household-planner/internal/model"
	"household-planner/internal/service"
)

// Server exposes the planner over HTTP.
type Server struct {
	engine    *service.Engine
	templates *service.TemplateService
	snapshots *service.SnapshotJob
	log       *zap.SugaredLogger
}

func NewServer(engine *service.Engine, templates *service.TemplateService, snapshots *service.SnapshotJob, log *zap.SugaredLogger) *Server {
	return &Server{engine: engine, templates: templates, snapshots: snapshots, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log), corsMiddleware())

	r.GET("/health", s.health)

	tasks := r.Group("/api/tasks")
	{
		tasks.GET("/today", s.today)
		tasks.GET("/date/:date", s.day)
		tasks.GET("/history", s.history)
		tasks.POST("", s.createTask)
		tasks.PATCH("/:id", s.updateTask)
		tasks.POST("/:id/complete", s.completeTask)
		tasks.POST("/:id/uncomplete", s.uncompleteTask)
		tasks.POST("/:id/move", s.moveTask)
		tasks.DELETE("/:id", s.deleteTask)
	}

	admin := r.Group("/api/admin")
	{
		admin.GET("/templates", s.listTemplates)
		admin.POST("/templates", s.createTemplate)
		admin.GET("/templates/:id", s.getTemplate)
		admin.PATCH("/templates/:id", s.updateTemplate)
		admin.POST("/templates/:id/deactivate", s.deactivateTemplate)
		admin.POST("/close/:date", s.closeDay)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "today": s.engine.Today()})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func parseDateParam(c *gin.Context, raw string) (model.Date, bool) {
	date, err := model.ParseDate(raw)
	if err != nil {
		badRequest(c, "invalid date, expected YYYY-MM-DD")
		return "", false
	}
	return date, true
}
