package model

import "time"

// DefaultExpectedMinutes is used when a template or one-off task omits a duration.
const DefaultExpectedMinutes = 30

// Template is a recurrence rule and the default fields of the occurrences it produces.
// Only the kind-specific payload is meaningful: Weekdays for weekly, MonthDay for monthly.
type Template struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"index;not null" json:"title"`
	Description     string         `json:"description,omitempty"`
	Priority        Priority       `gorm:"size:16;default:optional" json:"priority"`
	ExpectedMinutes int            `json:"expected_minutes"`
	Order           int            `gorm:"column:sort_order;default:0" json:"order"`
	RecurKind       RecurrenceKind `gorm:"size:16;default:none" json:"repeat_type"`
	Weekdays        WeekdaySet     `gorm:"size:32" json:"weekdays"`
	MonthDay        int            `json:"month_day,omitempty"`
	Active          bool           `gorm:"index" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// FiresOnWeekdays returns the weekday set a daily or weekly template covers.
func (t *Template) FiresOnWeekdays() WeekdaySet {
	switch t.RecurKind {
	case RecurDaily:
		return Workdays
	case RecurWeekly:
		return t.Weekdays
	}
	return nil
}

// RepeatDays lists the day names a template repeats on, for display.
func (t *Template) RepeatDays() []string {
	return t.FiresOnWeekdays().Names()
}
