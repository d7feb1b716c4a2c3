package model

// Priority decides how an occurrence is highlighted before completion.
type Priority string

const (
	PriorityRequired Priority = "required"
	PriorityOptional Priority = "optional"
)

func (p Priority) Valid() bool {
	return p == PriorityRequired || p == PriorityOptional
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Permanence separates regenerable occurrences from frozen history.
type Permanence string

const (
	PermanenceEphemeral Permanence = "ephemeral"
	PermanenceSnapshot  Permanence = "snapshot"
)

// RecurrenceKind tags the recurrence variant of a template.
type RecurrenceKind string

const (
	RecurNone    RecurrenceKind = "none"
	RecurDaily   RecurrenceKind = "daily"   // Mon–Fri
	RecurWeekly  RecurrenceKind = "weekly"  // explicit weekday set
	RecurMonthly RecurrenceKind = "monthly" // anchor day of month
)

func (k RecurrenceKind) Valid() bool {
	switch k {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly:
		return true
	}
	return false
}
