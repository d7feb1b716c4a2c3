package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"household-planner/internal/model"
	"household-planner/internal/repository"
)

// Engine reconciles templates with stored occurrences. Every read and
// mutation of per-day tasks goes through it.
type Engine struct {
	store *repository.Store
	clock Clock
	log   *zap.SugaredLogger

	// closeMu serializes day closing; the replace is delete-then-insert.
	closeMu sync.Mutex
}

func NewEngine(store *repository.Store, clock Clock, log *zap.SugaredLogger) *Engine {
	return &Engine{store: store, clock: clock, log: log}
}

// Today returns the engine's notion of the current day.
func (e *Engine) Today() model.Date {
	return e.clock.Today()
}

// ViewDate returns the tasks of a day ordered by display order. A closed day
// returns its snapshot records only; an open day is reconciled against the
// active templates, materializing any occurrence that is not stored yet.
func (e *Engine) ViewDate(ctx context.Context, date model.Date) ([]model.Occurrence, error) {
	var result []model.Occurrence
	err := e.store.WithTx(ctx, func(tx *repository.Store) error {
		snapshots, err := tx.Occurrences.ListByDate(ctx, date, model.PermanenceSnapshot)
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
		if len(snapshots) > 0 {
			result = snapshots
			return nil
		}

		result, err = e.liveView(ctx, tx, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IsClosed reports whether a day has been frozen into snapshots.
func (e *Engine) IsClosed(ctx context.Context, date model.Date) (bool, error) {
	count, err := e.store.Occurrences.CountSnapshots(ctx, date)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// liveView merges stored live occurrences with generator output. Lookup
// comes first; only templates without a stored occurrence are generated,
// and the generated occurrence is persisted before it is returned.
func (e *Engine) liveView(ctx context.Context, tx *repository.Store, date model.Date) ([]model.Occurrence, error) {
	stored, err := tx.Occurrences.ListByDate(ctx, date, model.PermanenceEphemeral)
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}

	seen := make(map[uint]bool, len(stored))
	for _, occ := range stored {
		if occ.TemplateID != nil {
			seen[*occ.TemplateID] = true
		}
	}

	templates, err := tx.Templates.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	materialized := 0
	for i := range templates {
		tpl := &templates[i]
		if seen[tpl.ID] {
			continue
		}
		occ, ok := Generate(tpl, date)
		if !ok {
			continue
		}
		created, err := tx.Occurrences.CreateIfAbsent(ctx, occ)
		if err != nil {
			return nil, err
		}
		stored = append(stored, *occ)
		if created {
			materialized++
		}
	}

	if materialized > 0 {
		e.log.Debugw("materialized occurrences", "date", date, "count", materialized)
	}

	sortOccurrences(stored)
	return stored, nil
}

func sortOccurrences(list []model.Occurrence) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].ID < list[j].ID
	})
}

// DayView is the merged task list of one day.
type DayView struct {
	Date        model.Date         `json:"date"`
	Closed      bool               `json:"closed"`
	Occurrences []model.Occurrence `json:"tasks"`
}

// Day is ViewDate together with the closed flag of the day.
func (e *Engine) Day(ctx context.Context, date model.Date) (DayView, error) {
	occurrences, err := e.ViewDate(ctx, date)
	if err != nil {
		return DayView{}, err
	}
	return DayView{
		Date:        date,
		Closed:      len(occurrences) > 0 && occurrences[0].IsSnapshot(),
		Occurrences: occurrences,
	}, nil
}

// MaxHistoryDays bounds History; every day in the window may materialize rows.
const MaxHistoryDays = 366

// History returns the views of the last days days, today first.
func (e *Engine) History(ctx context.Context, days int) ([]DayView, error) {
	if days <= 0 || days > MaxHistoryDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, MaxHistoryDays)
	}

	today := e.clock.Today()
	views := make([]DayView, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDays(-i)
		view, err := e.Day(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", date, err)
		}
		views = append(views, view)
	}
	return views, nil
}

// OneOffInput describes a task that belongs to a single day only.
type OneOffInput struct {
	Title           string
	Description     string
	Priority        model.Priority
	ExpectedMinutes *int
	Order           int
	Date            model.Date
}

// CreateOneOff adds a task without a template to an open day.
func (e *Engine) CreateOneOff(ctx context.Context, input OneOffInput) (*model.Occurrence, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := model.ParseDate(string(input.Date)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityOptional
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	minutes := model.DefaultExpectedMinutes
	if input.ExpectedMinutes != nil {
		minutes = *input.ExpectedMinutes
	}
	if minutes < 0 {
		return nil, fmt.Errorf("%w: expected duration must not be negative", ErrInvalidInput)
	}

	occ := &model.Occurrence{
		Title:           title,
		Description:     strings.TrimSpace(input.Description),
		Priority:        priority,
		ExpectedMinutes: minutes,
		Order:           input.Order,
		ScheduledDate:   input.Date,
		Status:          model.StatusPending,
		Permanence:      model.PermanenceEphemeral,
	}

	err := e.store.WithTx(ctx, func(tx *repository.Store) error {
		if err := ensureOpen(ctx, tx, input.Date); err != nil {
			return err
		}
		return tx.Occurrences.Create(ctx, occ)
	})
	if err != nil {
		return nil, err
	}

	e.log.Infow("one-off task created", "id", occ.ID, "date", occ.ScheduledDate)
	return occ, nil
}

// ensureOpen rejects writes that would land on a closed day.
func ensureOpen(ctx context.Context, tx *repository.Store, date model.Date) error {
	count, err := tx.Occurrences.CountSnapshots(ctx, date)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: day %s is closed", ErrImmutableRecord, date)
	}
	return nil
}

// syncLive re-derives the stored live occurrences of a template from today
// on. Records on later days the rule no longer covers are removed; today's
// record is kept as it may already be worked on. Covered records take the
// template's current fields. Snapshots are separate records and are never
// touched.
func syncLive(ctx context.Context, tx *repository.Store, tpl *model.Template, today model.Date) error {
	live, err := tx.Occurrences.ListLiveByTemplateFrom(ctx, tpl.ID, today)
	if err != nil {
		return fmt.Errorf("list live occurrences: %w", err)
	}
	for i := range live {
		occ := &live[i]
		if !Fires(tpl, occ.ScheduledDate) {
			if occ.ScheduledDate == today {
				continue
			}
			if err := tx.Occurrences.Delete(ctx, occ.ID); err != nil {
				return err
			}
			continue
		}
		copyTemplateFields(occ, tpl)
		if err := tx.Occurrences.Save(ctx, occ); err != nil {
			return err
		}
	}
	return nil
}
