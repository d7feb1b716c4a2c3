package model

import "time"

// Occurrence is the task of one calendar day. TemplateID is nil for one-off tasks.
//
// The unique index keeps one record per (template, date, permanence): one live
// copy and at most one frozen copy. SQLite and MySQL both allow repeated NULL
// template ids, so one-off tasks are not constrained by it.
type Occurrence struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TemplateID      *uint      `gorm:"uniqueIndex:idx_occurrence_template_day" json:"template_id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description,omitempty"`
	Priority        Priority   `gorm:"size:16" json:"priority"`
	ExpectedMinutes int        `json:"expected_minutes"`
	Order           int        `gorm:"column:sort_order" json:"order"`
	ScheduledDate   Date       `gorm:"size:10;index;uniqueIndex:idx_occurrence_template_day" json:"scheduled_date"`
	Status          Status     `gorm:"size:16;default:pending" json:"status"`
	Permanence      Permanence `gorm:"size:16;default:ephemeral;uniqueIndex:idx_occurrence_template_day" json:"permanence"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (o *Occurrence) IsSnapshot() bool {
	return o.Permanence == PermanenceSnapshot
}

func (o *Occurrence) IsOneOff() bool {
	return o.TemplateID == nil
}

func (o *Occurrence) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// Freeze returns a snapshot copy of the occurrence without identity.
func (o *Occurrence) Freeze() Occurrence {
	frozen := *o
	frozen.ID = 0
	frozen.CreatedAt = time.Time{}
	frozen.Permanence = PermanenceSnapshot
	if o.TemplateID != nil {
		id := *o.TemplateID
		frozen.TemplateID = &id
	}
	if o.CompletedAt != nil {
		at := *o.CompletedAt
		frozen.CompletedAt = &at
	}
	return frozen
}
