package service

import (
	"context"
	"fmt"
	"strings"

	"household-planner/internal/model"
	"household-planner/internal/repository"
)

// Intent names what the user asked to do with one occurrence.
type Intent string

const (
	IntentEdit       Intent = "edit"
	IntentReorder    Intent = "reorder"
	IntentMove       Intent = "move"
	IntentDelete     Intent = "delete"
	IntentComplete   Intent = "complete"
	IntentUncomplete Intent = "uncomplete"
)

// DeleteScope selects between removing one day and ending the whole series.
type DeleteScope string

const (
	ScopeSingle DeleteScope = "single"
	ScopeSeries DeleteScope = "series"
)

// EditFields carries the fields to change; nil means unchanged.
type EditFields struct {
	Title           *string
	Description     *string
	Priority        *model.Priority
	ExpectedMinutes *int
	// Order, when set, is applied like a reorder in the same transaction.
	Order *int
}

func (f EditFields) empty() bool {
	return f.Title == nil && f.Description == nil && f.Priority == nil && f.ExpectedMinutes == nil && f.Order == nil
}

// Mutation is one user intent against one occurrence.
type Mutation struct {
	Intent       Intent
	OccurrenceID uint
	Fields       EditFields  // edit
	Order        int         // reorder, move
	TargetDate   model.Date  // move
	Scope        DeleteScope // delete; empty means single
}

// MutationResult is the state left behind by a mutation.
type MutationResult struct {
	// Occurrence is the target after the mutation, nil when it was deleted.
	Occurrence *model.Occurrence `json:"task"`
	// Template is the target's template after the mutation, nil for one-off tasks.
	Template *model.Template `json:"template,omitempty"`
	// Created is the one-off task a move onto a weekend produced.
	Created *model.Occurrence `json:"created,omitempty"`
	Deleted bool              `json:"deleted"`
}

// Apply resolves a mutation intent into changes of the occurrence and, for
// templated occurrences, of the template. All changes of one call commit
// together or not at all.
func (e *Engine) Apply(ctx context.Context, m Mutation) (*MutationResult, error) {
	var res *MutationResult
	err := e.store.WithTx(ctx, func(tx *repository.Store) error {
		occ, err := tx.Occurrences.FindByID(ctx, m.OccurrenceID)
		if err != nil {
			return notFound(err, "task %d", m.OccurrenceID)
		}
		if occ.IsSnapshot() {
			return fmt.Errorf("%w: task %d belongs to a closed day", ErrImmutableRecord, occ.ID)
		}
		if err := ensureOpen(ctx, tx, occ.ScheduledDate); err != nil {
			return err
		}

		var tpl *model.Template
		if occ.TemplateID != nil {
			tpl, err = tx.Templates.FindByID(ctx, *occ.TemplateID)
			if err != nil {
				return notFound(err, "template %d", *occ.TemplateID)
			}
		}

		mt := &mutation{
			ctx:   ctx,
			tx:    tx,
			today: e.clock.Today(),
			occ:   occ,
			tpl:   tpl,
			res:   &MutationResult{Occurrence: occ, Template: tpl},
		}

		switch m.Intent {
		case IntentEdit:
			err = mt.edit(m.Fields)
		case IntentReorder:
			err = mt.reorder(m.Order)
		case IntentMove:
			err = mt.move(m.TargetDate, m.Order)
		case IntentDelete:
			err = mt.delete(m.Scope)
		case IntentComplete:
			mt.occ.Status = model.StatusCompleted
			now := e.clock.Now()
			mt.occ.CompletedAt = &now
			err = mt.saveOccurrence()
		case IntentUncomplete:
			mt.occ.Status = model.StatusPending
			mt.occ.CompletedAt = nil
			err = mt.saveOccurrence()
		default:
			err = fmt.Errorf("%w: unknown intent %q", ErrInvalidInput, m.Intent)
		}
		if err != nil {
			return err
		}
		res = mt.res
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Infow("mutation applied",
		"intent", m.Intent,
		"task", m.OccurrenceID,
		"deleted", res.Deleted,
		"template", templateLogID(res.Template),
	)
	return res, nil
}

func (e *Engine) Edit(ctx context.Context, id uint, fields EditFields) (*MutationResult, error) {
	return e.Apply(ctx, Mutation{Intent: IntentEdit, OccurrenceID: id, Fields: fields})
}

func (e *Engine) Reorder(ctx context.Context, id uint, order int) (*MutationResult, error) {
	return e.Apply(ctx, Mutation{Intent: IntentReorder, OccurrenceID: id, Order: order})
}

func (e *Engine) Move(ctx context.Context, id uint, target model.Date, order int) (*MutationResult, error) {
	return e.Apply(ctx, Mutation{Intent: IntentMove, OccurrenceID: id, TargetDate: target, Order: order})
}

func (e *Engine) Delete(ctx context.Context, id uint, scope DeleteScope) (*MutationResult, error) {
	return e.Apply(ctx, Mutation{Intent: IntentDelete, OccurrenceID: id, Scope: scope})
}

func (e *Engine) Complete(ctx context.Context, id uint) (*MutationResult, error) {
	return e.Apply(ctx, Mutation{Intent: IntentComplete, OccurrenceID: id})
}

func (e *Engine) Uncomplete(ctx context.Context, id uint) (*MutationResult, error) {
	return e.Apply(ctx, Mutation{Intent: IntentUncomplete, OccurrenceID: id})
}

func templateLogID(tpl *model.Template) uint {
	if tpl == nil {
		return 0
	}
	return tpl.ID
}

// mutation holds the records one Apply call works on inside its transaction.
type mutation struct {
	ctx   context.Context
	tx    *repository.Store
	today model.Date
	occ   *model.Occurrence
	tpl   *model.Template
	res   *MutationResult
}

// ruleBound reports whether changes to the occurrence's placement must be
// expressed through its template's weekday rule.
func (m *mutation) ruleBound() bool {
	if m.tpl == nil || !m.tpl.Active {
		return false
	}
	switch m.tpl.RecurKind {
	case model.RecurDaily, model.RecurWeekly, model.RecurMonthly:
		return true
	}
	return false
}

func (m *mutation) edit(fields EditFields) error {
	if fields.empty() {
		return fmt.Errorf("%w: nothing to edit", ErrInvalidInput)
	}
	if err := validateFields(fields); err != nil {
		return err
	}

	// The occurrence mirrors its template; for templated tasks the template
	// is the record being edited and the copy follows it.
	applyFields(&m.occ.Title, &m.occ.Description, &m.occ.Priority, &m.occ.ExpectedMinutes, fields)
	if fields.Order != nil {
		m.occ.Order = *fields.Order
	}
	if err := m.saveOccurrence(); err != nil {
		return err
	}
	if m.tpl == nil {
		return nil
	}
	applyFields(&m.tpl.Title, &m.tpl.Description, &m.tpl.Priority, &m.tpl.ExpectedMinutes, fields)
	if fields.Order != nil {
		m.tpl.Order = *fields.Order
	}
	return m.saveTemplate()
}

func (m *mutation) reorder(order int) error {
	m.occ.Order = order
	if err := m.saveOccurrence(); err != nil {
		return err
	}
	if m.tpl == nil {
		return nil
	}
	m.tpl.Order = order
	return m.saveTemplate()
}

func (m *mutation) delete(scope DeleteScope) error {
	switch scope {
	case "", ScopeSingle:
	case ScopeSeries:
		return m.deleteSeries()
	default:
		return fmt.Errorf("%w: unknown delete scope %q", ErrInvalidInput, scope)
	}

	if !m.ruleBound() {
		return m.deleteOccurrence()
	}

	switch m.tpl.RecurKind {
	case model.RecurMonthly:
		return fmt.Errorf("%w: a single day of a monthly task cannot be deleted, delete the series instead", ErrAmbiguousIntent)
	case model.RecurDaily, model.RecurWeekly:
		days := m.tpl.FiresOnWeekdays().Without(m.occ.ScheduledDate.Weekday())
		m.setWeekdays(days)
	}

	if err := m.deleteOccurrence(); err != nil {
		return err
	}
	return m.saveTemplate()
}

func (m *mutation) deleteSeries() error {
	if err := m.deleteOccurrence(); err != nil {
		return err
	}
	if m.tpl == nil {
		return nil
	}
	m.tpl.Active = false
	return m.saveTemplate()
}

func (m *mutation) move(target model.Date, order int) error {
	if _, err := model.ParseDate(string(target)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if target == m.occ.ScheduledDate {
		return m.reorder(order)
	}
	if err := ensureOpen(m.ctx, m.tx, target); err != nil {
		return err
	}

	if !m.ruleBound() {
		return m.moveLocal(target, order)
	}
	if m.tpl.RecurKind == model.RecurMonthly {
		return fmt.Errorf("%w: a monthly task cannot be moved to another day", ErrAmbiguousIntent)
	}

	source := m.occ.ScheduledDate.Weekday()
	if source == target.Weekday() {
		return fmt.Errorf("%w: the task already repeats every %s", ErrAmbiguousIntent, source)
	}

	taken, err := m.templateHasDay(target)
	if err != nil {
		return err
	}

	days := m.tpl.FiresOnWeekdays().Without(source)
	switch {
	case taken:
		// The target already has this task; only the source day goes.
		m.setWeekdays(days)
		if err := m.deleteOccurrence(); err != nil {
			return err
		}
	case target.IsWeekend():
		// Rules only cover workdays; the weekend copy stands alone.
		m.setWeekdays(days)
		created := m.oneOffCopy(target, order)
		if err := m.tx.Occurrences.Create(m.ctx, created); err != nil {
			return err
		}
		m.res.Created = created
		if err := m.deleteOccurrence(); err != nil {
			return err
		}
	default:
		m.setWeekdays(days.With(target.Weekday()))
		m.tpl.Order = order
		m.occ.ScheduledDate = target
		m.occ.Order = order
		if err := m.saveOccurrence(); err != nil {
			return err
		}
	}
	return m.saveTemplate()
}

// moveLocal moves an occurrence whose placement is not governed by a rule.
func (m *mutation) moveLocal(target model.Date, order int) error {
	if m.occ.TemplateID != nil {
		existing, err := m.tx.Occurrences.FindLive(m.ctx, *m.occ.TemplateID, target)
		if err == nil && existing != nil {
			return m.deleteOccurrence()
		}
		if err != nil && !isNotFound(err) {
			return err
		}
	}
	m.occ.ScheduledDate = target
	m.occ.Order = order
	return m.saveOccurrence()
}

// templateHasDay reports whether the template already has an occurrence on
// date, stored or still to be generated.
func (m *mutation) templateHasDay(date model.Date) (bool, error) {
	if Fires(m.tpl, date) {
		return true, nil
	}
	_, err := m.tx.Occurrences.FindLive(m.ctx, m.tpl.ID, date)
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("find occurrence: %w", err)
	}
}

// setWeekdays narrows a daily or weekly template to days. A daily template
// becomes weekly; a rule left without days is deactivated instead.
func (m *mutation) setWeekdays(days model.WeekdaySet) {
	if days.Empty() {
		m.tpl.Active = false
		if m.tpl.RecurKind == model.RecurWeekly {
			m.tpl.Weekdays = days
		}
		return
	}
	m.tpl.RecurKind = model.RecurWeekly
	m.tpl.Weekdays = days
}

func (m *mutation) oneOffCopy(date model.Date, order int) *model.Occurrence {
	return &model.Occurrence{
		Title:           m.occ.Title,
		Description:     m.occ.Description,
		Priority:        m.occ.Priority,
		ExpectedMinutes: m.occ.ExpectedMinutes,
		Order:           order,
		ScheduledDate:   date,
		Status:          m.occ.Status,
		CompletedAt:     m.occ.CompletedAt,
		Permanence:      model.PermanenceEphemeral,
	}
}

func (m *mutation) saveOccurrence() error {
	return m.tx.Occurrences.Save(m.ctx, m.occ)
}

func (m *mutation) deleteOccurrence() error {
	if err := m.tx.Occurrences.Delete(m.ctx, m.occ.ID); err != nil {
		return err
	}
	m.res.Occurrence = nil
	m.res.Deleted = true
	return nil
}

// saveTemplate persists the template and re-derives its live occurrences.
func (m *mutation) saveTemplate() error {
	if err := m.tx.Templates.Save(m.ctx, m.tpl); err != nil {
		return err
	}
	return syncLive(m.ctx, m.tx, m.tpl, m.today)
}

func validateFields(fields EditFields) error {
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	if fields.Priority != nil && !fields.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *fields.Priority)
	}
	if fields.ExpectedMinutes != nil && *fields.ExpectedMinutes < 0 {
		return fmt.Errorf("%w: expected duration must not be negative", ErrInvalidInput)
	}
	return nil
}

func applyFields(title, description *string, priority *model.Priority, minutes *int, fields EditFields) {
	if fields.Title != nil {
		*title = strings.TrimSpace(*fields.Title)
	}
	if fields.Description != nil {
		*description = strings.TrimSpace(*fields.Description)
	}
	if fields.Priority != nil {
		*priority = *fields.Priority
	}
	if fields.ExpectedMinutes != nil {
		*minutes = *fields.ExpectedMinutes
	}
}
