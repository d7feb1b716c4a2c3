package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"household-planner/internal/model"
	"household-planner/internal/service"
)

const defaultHistoryDays = 7

type createTaskRequest struct {
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description"`
	Priority        model.Priority `json:"priority"`
	ExpectedMinutes *int           `json:"expected_minutes"`
	Order           int            `json:"order"`
	Date            string         `json:"date"`
}

type updateTaskRequest struct {
	Title           *string         `json:"title"`
	Description     *string         `json:"description"`
	Priority        *model.Priority `json:"priority"`
	ExpectedMinutes *int            `json:"expected_minutes"`
	Order           *int            `json:"order"`
}

type moveTaskRequest struct {
	TargetDate string `json:"target_date" binding:"required"`
	Order      int    `json:"order"`
}

func (s *Server) today(c *gin.Context) {
	s.respondDay(c, s.engine.Today())
}

func (s *Server) day(c *gin.Context) {
	date, ok := parseDateParam(c, c.Param("date"))
	if !ok {
		return
	}
	s.respondDay(c, date)
}

func (s *Server) respondDay(c *gin.Context, date model.Date) {
	view, err := s.engine.Day(c.Request.Context(), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) history(c *gin.Context) {
	days := defaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "days must be a number")
			return
		}
		days = n
	}

	views, err := s.engine.History(c.Request.Context(), days)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": views})
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	date := s.engine.Today()
	if req.Date != "" {
		var ok bool
		if date, ok = parseDateParam(c, req.Date); !ok {
			return
		}
	}

	occ, err := s.engine.CreateOneOff(c.Request.Context(), service.OneOffInput{
		Title:           req.Title,
		Description:     req.Description,
		Priority:        req.Priority,
		ExpectedMinutes: req.ExpectedMinutes,
		Order:           req.Order,
		Date:            date,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, occ)
}

// updateTask edits fields and/or the display order of a task in one step.
func (s *Server) updateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Title == nil && req.Description == nil && req.Priority == nil && req.ExpectedMinutes == nil && req.Order == nil {
		badRequest(c, "nothing to update")
		return
	}

	res, err := s.engine.Edit(c.Request.Context(), id, service.EditFields{
		Title:           req.Title,
		Description:     req.Description,
		Priority:        req.Priority,
		ExpectedMinutes: req.ExpectedMinutes,
		Order:           req.Order,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) completeTask(c *gin.Context) {
	s.applyIntent(c, service.IntentComplete)
}

func (s *Server) uncompleteTask(c *gin.Context) {
	s.applyIntent(c, service.IntentUncomplete)
}

func (s *Server) applyIntent(c *gin.Context, intent service.Intent) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := s.engine.Apply(c.Request.Context(), service.Mutation{Intent: intent, OccurrenceID: id})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) moveTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	target, ok := parseDateParam(c, req.TargetDate)
	if !ok {
		return
	}

	res, err := s.engine.Move(c.Request.Context(), id, target, req.Order)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	scope := service.DeleteScope(c.DefaultQuery("scope", string(service.ScopeSingle)))
	if scope != service.ScopeSingle && scope != service.ScopeSeries {
		badRequest(c, "scope must be single or series")
		return
	}

	res, err := s.engine.Delete(c.Request.Context(), id, scope)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
