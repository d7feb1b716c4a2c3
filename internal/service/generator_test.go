package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-planner/internal/model"
)

func TestFires(t *testing.T) {
	tests := []struct {
		name string
		tpl  model.Template
		date model.Date
		want bool
	}{
		{name: "inactive daily", tpl: model.Template{RecurKind: model.RecurDaily}, date: mon, want: false},
		{name: "daily on workday", tpl: model.Template{RecurKind: model.RecurDaily, Active: true}, date: wed, want: true},
		{name: "daily on saturday", tpl: model.Template{RecurKind: model.RecurDaily, Active: true}, date: sat, want: false},
		{name: "weekly listed day", tpl: model.Template{RecurKind: model.RecurWeekly, Active: true, Weekdays: model.NewWeekdaySet(time.Monday, time.Friday)}, date: fri, want: true},
		{name: "weekly unlisted day", tpl: model.Template{RecurKind: model.RecurWeekly, Active: true, Weekdays: model.NewWeekdaySet(time.Monday, time.Friday)}, date: thu, want: false},
		{name: "weekly empty set", tpl: model.Template{RecurKind: model.RecurWeekly, Active: true}, date: mon, want: false},
		{name: "monthly anchor day", tpl: model.Template{RecurKind: model.RecurMonthly, Active: true, MonthDay: 6}, date: wed, want: true},
		{name: "monthly other day", tpl: model.Template{RecurKind: model.RecurMonthly, Active: true, MonthDay: 6}, date: thu, want: false},
		{name: "monthly clamped to leap february", tpl: model.Template{RecurKind: model.RecurMonthly, Active: true, MonthDay: 31}, date: model.MustDate("2024-02-29"), want: true},
		{name: "monthly clamped to april", tpl: model.Template{RecurKind: model.RecurMonthly, Active: true, MonthDay: 31}, date: model.MustDate("2024-04-30"), want: true},
		{name: "monthly not early in long month", tpl: model.Template{RecurKind: model.RecurMonthly, Active: true, MonthDay: 31}, date: model.MustDate("2024-03-30"), want: false},
		{name: "none never fires", tpl: model.Template{RecurKind: model.RecurNone, Active: true}, date: mon, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fires(&tt.tpl, tt.date))
		})
	}
}

func TestGenerateCopiesTemplate(t *testing.T) {
	tpl := &model.Template{
		ID:              7,
		Title:           "Vacuum",
		Description:     "living room",
		Priority:        model.PriorityRequired,
		ExpectedMinutes: 20,
		Order:           3,
		RecurKind:       model.RecurDaily,
		Active:          true,
	}

	occ, ok := Generate(tpl, tue)
	require.True(t, ok)
	require.NotNil(t, occ.TemplateID)
	assert.Equal(t, uint(7), *occ.TemplateID)
	assert.Zero(t, occ.ID)
	assert.Equal(t, "Vacuum", occ.Title)
	assert.Equal(t, "living room", occ.Description)
	assert.Equal(t, model.PriorityRequired, occ.Priority)
	assert.Equal(t, 20, occ.ExpectedMinutes)
	assert.Equal(t, 3, occ.Order)
	assert.Equal(t, tue, occ.ScheduledDate)
	assert.Equal(t, model.StatusPending, occ.Status)
	assert.Equal(t, model.PermanenceEphemeral, occ.Permanence)

	_, ok = Generate(tpl, sat)
	assert.False(t, ok)
	_, ok = Generate(nil, tue)
	assert.False(t, ok)
}
