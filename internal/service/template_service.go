package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"household-planner/internal/model"
	"household-planner/internal/repository"
)

// TemplateInput represents data required to create a template.
type TemplateInput struct {
	Title           string
	Description     string
	Priority        model.Priority
	ExpectedMinutes *int
	Order           int
	RecurKind       model.RecurrenceKind
	Weekdays        model.WeekdaySet
	MonthDay        int
}

// TemplateUpdate carries the template fields to change; nil means unchanged.
type TemplateUpdate struct {
	Title           *string
	Description     *string
	Priority        *model.Priority
	ExpectedMinutes *int
	Order           *int
	RecurKind       *model.RecurrenceKind
	Weekdays        *model.WeekdaySet
	MonthDay        *int
	Active          *bool
}

// TemplateService administers recurrence templates.
type TemplateService struct {
	store *repository.Store
	clock Clock
	log   *zap.SugaredLogger
}

func NewTemplateService(store *repository.Store, clock Clock, log *zap.SugaredLogger) *TemplateService {
	return &TemplateService{store: store, clock: clock, log: log}
}

func (s *TemplateService) Create(ctx context.Context, input TemplateInput) (*model.Template, error) {
	tpl := model.Template{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Priority:        input.Priority,
		ExpectedMinutes: model.DefaultExpectedMinutes,
		Order:           input.Order,
		RecurKind:       input.RecurKind,
		Weekdays:        input.Weekdays,
		MonthDay:        input.MonthDay,
		Active:          true,
	}
	if tpl.Priority == "" {
		tpl.Priority = model.PriorityOptional
	}
	if tpl.RecurKind == "" {
		tpl.RecurKind = model.RecurNone
	}
	if input.ExpectedMinutes != nil {
		tpl.ExpectedMinutes = *input.ExpectedMinutes
	}
	normalizeRecurrence(&tpl)

	if err := validateTemplate(&tpl); err != nil {
		return nil, err
	}
	if err := s.store.Templates.Create(ctx, &tpl); err != nil {
		return nil, err
	}

	s.log.Infow("template created", "id", tpl.ID, "repeat", tpl.RecurKind, "weekdays", tpl.Weekdays.String())
	return &tpl, nil
}

func (s *TemplateService) Get(ctx context.Context, id uint) (*model.Template, error) {
	tpl, err := s.store.Templates.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "template %d", id)
	}
	return tpl, nil
}

func (s *TemplateService) List(ctx context.Context, activeOnly bool) ([]model.Template, error) {
	return s.store.Templates.List(ctx, activeOnly)
}

// Update changes a template and re-derives its live occurrences from today
// on. Snapshots of closed days keep the values they were frozen with.
func (s *TemplateService) Update(ctx context.Context, id uint, update TemplateUpdate) (*model.Template, error) {
	var tpl *model.Template
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		var err error
		tpl, err = tx.Templates.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "template %d", id)
		}

		applyTemplateUpdate(tpl, update)
		normalizeRecurrence(tpl)
		if err := validateTemplate(tpl); err != nil {
			return err
		}

		if err := tx.Templates.Save(ctx, tpl); err != nil {
			return err
		}
		return syncLive(ctx, tx, tpl, s.clock.Today())
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("template updated", "id", tpl.ID, "active", tpl.Active)
	return tpl, nil
}

// Deactivate stops a template from generating; its history stays queryable.
func (s *TemplateService) Deactivate(ctx context.Context, id uint) (*model.Template, error) {
	inactive := false
	return s.Update(ctx, id, TemplateUpdate{Active: &inactive})
}

func applyTemplateUpdate(tpl *model.Template, u TemplateUpdate) {
	if u.Title != nil {
		tpl.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		tpl.Description = strings.TrimSpace(*u.Description)
	}
	if u.Priority != nil {
		tpl.Priority = *u.Priority
	}
	if u.ExpectedMinutes != nil {
		tpl.ExpectedMinutes = *u.ExpectedMinutes
	}
	if u.Order != nil {
		tpl.Order = *u.Order
	}
	if u.RecurKind != nil {
		tpl.RecurKind = *u.RecurKind
	}
	if u.Weekdays != nil {
		tpl.Weekdays = *u.Weekdays
	}
	if u.MonthDay != nil {
		tpl.MonthDay = *u.MonthDay
	}
	if u.Active != nil {
		tpl.Active = *u.Active
	}
}

// normalizeRecurrence drops the payload of the variants that do not use it.
func normalizeRecurrence(tpl *model.Template) {
	if tpl.RecurKind != model.RecurWeekly {
		tpl.Weekdays = nil
	}
	if tpl.RecurKind != model.RecurMonthly {
		tpl.MonthDay = 0
	}
}

func validateTemplate(tpl *model.Template) error {
	if tpl.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !tpl.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, tpl.Priority)
	}
	if tpl.ExpectedMinutes < 0 {
		return fmt.Errorf("%w: expected duration must not be negative", ErrInvalidInput)
	}
	return validateRecurrence(tpl)
}

func validateRecurrence(tpl *model.Template) error {
	switch tpl.RecurKind {
	case model.RecurNone, model.RecurDaily:
		return nil
	case model.RecurWeekly:
		if !tpl.Weekdays.OnlyWorkdays() {
			return fmt.Errorf("%w: weekly rules repeat on Mon-Fri only, got %v", ErrInvalidRecurrence, []time.Weekday(tpl.Weekdays))
		}
		if tpl.Active && tpl.Weekdays.Empty() {
			return fmt.Errorf("%w: a weekly rule needs at least one weekday", ErrInvalidRecurrence)
		}
		return nil
	case model.RecurMonthly:
		if tpl.MonthDay < 1 || tpl.MonthDay > 31 {
			return fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidRecurrence, tpl.MonthDay)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown repeat type %q", ErrInvalidRecurrence, tpl.RecurKind)
	}
}
