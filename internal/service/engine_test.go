package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-planner/internal/model"
)

func TestViewDate_IdempotentGeneration(t *testing.T) {
	env := newTestEnv(t, mon)
	ctx := context.Background()

	env.daily(t, "Dishes")
	env.weekly(t, "Laundry", time.Monday, time.Wednesday, time.Friday)
	env.createTemplate(t, TemplateInput{Title: "Fridge", RecurKind: model.RecurMonthly, MonthDay: 6})
	_, err := env.engine.CreateOneOff(ctx, OneOffInput{Title: "Call plumber", Date: wed})
	require.NoError(t, err)

	first := env.view(t, wed)
	second := env.view(t, wed)
	third := env.view(t, wed)

	require.Len(t, first, 4)
	assert.Equal(t, fingerprint(first), fingerprint(second))
	assert.Equal(t, fingerprint(second), fingerprint(third))
}

func TestViewDate_AtMostOneLiveOccurrencePerTemplate(t *testing.T) {
	env := newTestEnv(t, mon)
	dishes := env.daily(t, "Dishes")

	for i := 0; i < 5; i++ {
		env.view(t, tue)
	}

	assert.Equal(t, int64(1), env.countRecords(t, dishes, tue, model.PermanenceEphemeral))
}

func TestViewDate_OrdersByOrderThenID(t *testing.T) {
	env := newTestEnv(t, mon)

	env.createTemplate(t, TemplateInput{Title: "last", RecurKind: model.RecurDaily, Order: 5})
	env.createTemplate(t, TemplateInput{Title: "first", RecurKind: model.RecurDaily, Order: 1})
	env.createTemplate(t, TemplateInput{Title: "second", RecurKind: model.RecurDaily, Order: 1})

	occurrences := env.view(t, thu)
	require.Len(t, occurrences, 3)
	assert.Equal(t, "first", occurrences[0].Title)
	assert.Equal(t, "second", occurrences[1].Title)
	assert.Equal(t, "last", occurrences[2].Title)
	assert.Less(t, occurrences[0].ID, occurrences[1].ID)
}

func TestViewDate_SkipsInactiveAndNonMatchingTemplates(t *testing.T) {
	env := newTestEnv(t, mon)
	ctx := context.Background()

	env.weekly(t, "Tuesday only", time.Tuesday)
	retired := env.daily(t, "Retired")
	_, err := env.templates.Deactivate(ctx, retired.ID)
	require.NoError(t, err)
	env.createTemplate(t, TemplateInput{Title: "Loose", RecurKind: model.RecurNone})

	assert.Empty(t, env.view(t, wed))
	assert.Len(t, env.view(t, tue), 1)
	assert.Empty(t, env.view(t, sat))
}

func TestViewDate_PicksUpTemplatesAddedLater(t *testing.T) {
	env := newTestEnv(t, mon)

	env.daily(t, "Dishes")
	require.Len(t, env.view(t, thu), 1)

	env.daily(t, "Trash")
	assert.Len(t, env.view(t, thu), 2)
}

func TestCreateOneOff_Validation(t *testing.T) {
	env := newTestEnv(t, mon)
	ctx := context.Background()

	_, err := env.engine.CreateOneOff(ctx, OneOffInput{Title: "  ", Date: mon})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.engine.CreateOneOff(ctx, OneOffInput{Title: "x", Date: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.engine.CreateOneOff(ctx, OneOffInput{Title: "x", Date: mon, ExpectedMinutes: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.engine.CreateOneOff(ctx, OneOffInput{Title: "x", Date: mon, Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	occ, err := env.engine.CreateOneOff(ctx, OneOffInput{Title: "Windows", Date: sat, ExpectedMinutes: ptr(0)})
	require.NoError(t, err)
	assert.True(t, occ.IsOneOff())
	assert.Equal(t, model.PriorityOptional, occ.Priority)
	assert.Equal(t, 0, occ.ExpectedMinutes)
	assert.Len(t, env.view(t, sat), 1)
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t, wed)
	ctx := context.Background()

	env.daily(t, "Dishes")
	_, err := env.engine.CloseDay(ctx, mon)
	require.NoError(t, err)

	views, err := env.engine.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, wed, views[0].Date)
	assert.Equal(t, tue, views[1].Date)
	assert.Equal(t, mon, views[2].Date)
	assert.False(t, views[0].Closed)
	assert.True(t, views[2].Closed)
	for _, v := range views {
		assert.Len(t, v.Occurrences, 1)
	}

	_, err = env.engine.History(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var before int64
	require.NoError(t, env.db.Model(&model.Occurrence{}).Count(&before).Error)
	_, err = env.engine.History(ctx, MaxHistoryDays+1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	var after int64
	require.NoError(t, env.db.Model(&model.Occurrence{}).Count(&after).Error)
	assert.Equal(t, before, after, "a rejected window must not materialize days")
}
