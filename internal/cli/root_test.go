package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"household-planner/internal/model"
	"household-planner/internal/repository"
	"household-planner/internal/service"
)

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "close-day", "view"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

// seedDatabase points the commands at a fresh database holding one daily chore.
func seedDatabase(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", path)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("TIMEZONE", "UTC")

	log := zap.NewNop().Sugar()
	db, err := repository.NewDB(repository.DriverSQLite, path, log)
	require.NoError(t, err)
	store := repository.NewStore(db)
	templates := service.NewTemplateService(store, service.FixedDay(model.MustDate("2024-03-04")), log)
	_, err = templates.Create(context.Background(), service.TemplateInput{Title: "Dishes", RecurKind: model.RecurDaily})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestViewAndCloseDay(t *testing.T) {
	seedDatabase(t)

	out, err := execute(t, "view", "--date", "2024-03-04")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-04 (Monday, open)")
	assert.Contains(t, out, "Dishes")

	out, err = execute(t, "close-day", "--date", "2024-03-04", "--format", "json")
	require.NoError(t, err)
	var closed closeDayResult
	require.NoError(t, json.Unmarshal([]byte(out), &closed))
	assert.Equal(t, closeDayResult{Date: "2024-03-04", Snapshots: 1}, closed)

	out, err = execute(t, "view", "--date", "2024-03-04")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-04 (Monday, closed)")

	out, err = execute(t, "view", "--date", "2024-03-09")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing planned")
}

func TestInvalidInput(t *testing.T) {
	seedDatabase(t)

	_, err := execute(t, "view", "--date", "04.03.2024")
	assert.Error(t, err)

	_, err = execute(t, "view", "--format", "yaml")
	assert.Error(t, err)
}
