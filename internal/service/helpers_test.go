package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"household-planner/internal/model"
	"household-planner/internal/repository"
)

// The week of 2024-03-04 (Mon) to 2024-03-10 (Sun) is used throughout.
var (
	mon     = model.MustDate("2024-03-04")
	tue     = model.MustDate("2024-03-05")
	wed     = model.MustDate("2024-03-06")
	thu     = model.MustDate("2024-03-07")
	fri     = model.MustDate("2024-03-08")
	sat     = model.MustDate("2024-03-09")
	nextMon = model.MustDate("2024-03-11")
	nextWed = model.MustDate("2024-03-13")
)

type testEnv struct {
	db        *gorm.DB
	store     *repository.Store
	engine    *Engine
	templates *TemplateService
}

func newTestEnv(t *testing.T, today model.Date) *testEnv {
	t.Helper()

	log := zap.NewNop().Sugar()
	db, err := repository.NewDB(repository.DriverSQLite, filepath.Join(t.TempDir(), "planner.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := repository.NewStore(db)
	clock := FixedDay(today)
	return &testEnv{
		db:        db,
		store:     store,
		engine:    NewEngine(store, clock, log),
		templates: NewTemplateService(store, clock, log),
	}
}

func (env *testEnv) createTemplate(t *testing.T, input TemplateInput) *model.Template {
	t.Helper()
	if input.Title == "" {
		input.Title = "task"
	}
	tpl, err := env.templates.Create(context.Background(), input)
	require.NoError(t, err)
	return tpl
}

func (env *testEnv) weekly(t *testing.T, title string, days ...time.Weekday) *model.Template {
	t.Helper()
	return env.createTemplate(t, TemplateInput{Title: title, RecurKind: model.RecurWeekly, Weekdays: model.NewWeekdaySet(days...)})
}

func (env *testEnv) daily(t *testing.T, title string) *model.Template {
	t.Helper()
	return env.createTemplate(t, TemplateInput{Title: title, RecurKind: model.RecurDaily})
}

func (env *testEnv) view(t *testing.T, date model.Date) []model.Occurrence {
	t.Helper()
	occurrences, err := env.engine.ViewDate(context.Background(), date)
	require.NoError(t, err)
	return occurrences
}

// occurrenceOf finds the occurrence of a template in a day view.
func (env *testEnv) occurrenceOf(t *testing.T, date model.Date, tpl *model.Template) *model.Occurrence {
	t.Helper()
	for _, occ := range env.view(t, date) {
		if occ.TemplateID != nil && *occ.TemplateID == tpl.ID {
			o := occ
			return &o
		}
	}
	t.Fatalf("no occurrence of template %d on %s", tpl.ID, date)
	return nil
}

func (env *testEnv) hasTemplate(t *testing.T, date model.Date, tpl *model.Template) bool {
	t.Helper()
	for _, occ := range env.view(t, date) {
		if occ.TemplateID != nil && *occ.TemplateID == tpl.ID {
			return true
		}
	}
	return false
}

func (env *testEnv) reload(t *testing.T, tpl *model.Template) *model.Template {
	t.Helper()
	fresh, err := env.templates.Get(context.Background(), tpl.ID)
	require.NoError(t, err)
	return fresh
}

// countRecords counts stored occurrences of a template on a day, any permanence.
func (env *testEnv) countRecords(t *testing.T, tpl *model.Template, date model.Date, permanence model.Permanence) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&model.Occurrence{}).
		Where("template_id = ? AND scheduled_date = ? AND permanence = ?", tpl.ID, date, permanence).
		Count(&count).Error)
	return count
}

// fingerprint reduces a view to the fields that must be stable across reads.
func fingerprint(occurrences []model.Occurrence) []string {
	out := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, fmt.Sprintf("%d %s %q %s %s order=%d", occ.ID, occ.ScheduledDate, occ.Title, occ.Status, occ.Permanence, occ.Order))
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
