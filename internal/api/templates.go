package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"household-planner/internal/model"
	"household-planner/internal/service"
)

// templateRequest uses weekday numbers, 1 = Monday ... 5 = Friday.
type templateRequest struct {
	Title           string               `json:"title" binding:"required"`
	Description     string               `json:"description"`
	Priority        model.Priority       `json:"priority"`
	ExpectedMinutes *int                 `json:"expected_minutes"`
	Order           int                  `json:"order"`
	RepeatType      model.RecurrenceKind `json:"repeat_type"`
	Weekdays        model.WeekdaySet     `json:"weekdays"`
	MonthDay        int                  `json:"month_day"`
}

type templatePatchRequest struct {
	Title           *string               `json:"title"`
	Description     *string               `json:"description"`
	Priority        *model.Priority       `json:"priority"`
	ExpectedMinutes *int                  `json:"expected_minutes"`
	Order           *int                  `json:"order"`
	RepeatType      *model.RecurrenceKind `json:"repeat_type"`
	Weekdays        *model.WeekdaySet     `json:"weekdays"`
	MonthDay        *int                  `json:"month_day"`
	Active          *bool                 `json:"active"`
}

type templateResponse struct {
	*model.Template
	RepeatDays []string `json:"repeat_days"`
}

func newTemplateResponse(tpl *model.Template) templateResponse {
	return templateResponse{Template: tpl, RepeatDays: tpl.RepeatDays()}
}

func (s *Server) listTemplates(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	list, err := s.templates.List(c.Request.Context(), activeOnly)
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]templateResponse, 0, len(list))
	for i := range list {
		out = append(out, newTemplateResponse(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

func (s *Server) getTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tpl, err := s.templates.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTemplateResponse(tpl))
}

func (s *Server) createTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	tpl, err := s.templates.Create(c.Request.Context(), service.TemplateInput{
		Title:           req.Title,
		Description:     req.Description,
		Priority:        req.Priority,
		ExpectedMinutes: req.ExpectedMinutes,
		Order:           req.Order,
		RecurKind:       req.RepeatType,
		Weekdays:        req.Weekdays,
		MonthDay:        req.MonthDay,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTemplateResponse(tpl))
}

func (s *Server) updateTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req templatePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	tpl, err := s.templates.Update(c.Request.Context(), id, service.TemplateUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Priority:        req.Priority,
		ExpectedMinutes: req.ExpectedMinutes,
		Order:           req.Order,
		RecurKind:       req.RepeatType,
		Weekdays:        req.Weekdays,
		MonthDay:        req.MonthDay,
		Active:          req.Active,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTemplateResponse(tpl))
}

func (s *Server) deactivateTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tpl, err := s.templates.Deactivate(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTemplateResponse(tpl))
}

func (s *Server) closeDay(c *gin.Context) {
	date, ok := parseDateParam(c, c.Param("date"))
	if !ok {
		return
	}
	count, err := s.snapshots.Run(c.Request.Context(), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "snapshots": count})
}
