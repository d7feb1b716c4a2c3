package service

import "household-planner/internal/model"

// Fires reports whether a template produces an occurrence on date.
func Fires(tpl *model.Template, date model.Date) bool {
	if tpl == nil || !tpl.Active {
		return false
	}

	switch tpl.RecurKind {
	case model.RecurDaily:
		return !date.IsWeekend()
	case model.RecurWeekly:
		return tpl.Weekdays.Contains(date.Weekday())
	case model.RecurMonthly:
		return monthlyDueDay(tpl.MonthDay, date) == date.Time().Day()
	default:
		return false
	}
}

// Generate returns the transient occurrence a template produces on date.
// The caller is responsible for checking that none is stored yet.
func Generate(tpl *model.Template, date model.Date) (*model.Occurrence, bool) {
	if !Fires(tpl, date) {
		return nil, false
	}

	templateID := tpl.ID
	occ := &model.Occurrence{
		TemplateID:    &templateID,
		ScheduledDate: date,
		Status:        model.StatusPending,
		Permanence:    model.PermanenceEphemeral,
	}
	copyTemplateFields(occ, tpl)
	return occ, true
}

// copyTemplateFields overwrites the template-owned fields of an occurrence.
func copyTemplateFields(occ *model.Occurrence, tpl *model.Template) {
	occ.Title = tpl.Title
	occ.Description = tpl.Description
	occ.Priority = tpl.Priority
	occ.ExpectedMinutes = tpl.ExpectedMinutes
	occ.Order = tpl.Order
}

// monthlyDueDay clamps the anchor day to the length of date's month, so a
// template anchored on the 31st fires on the 30th of April.
func monthlyDueDay(anchor int, date model.Date) int {
	if anchor <= 0 {
		return 0
	}
	if last := date.DaysInMonth(); anchor > last {
		return last
	}
	return anchor
}
