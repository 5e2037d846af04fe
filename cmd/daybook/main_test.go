package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func useTempConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database:\n  path: " + filepath.Join(dir, "data", "daybook.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	prev := configPath
	configPath = path
	t.Cleanup(func() { configPath = prev })
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), day)

	_, err = parseDay("28/02/2026")
	assert.Error(t, err)
}

func TestChecklistAndReportCommands(t *testing.T) {
	useTempConfig(t)

	id := strings.TrimSpace(run(t, NewChecklistCommand(), "add", "water plants", "--date", "2026-02-28"))
	require.NotEmpty(t, id)
	run(t, NewChecklistCommand(), "add-sub", id, "ferns")
	run(t, NewChecklistCommand(), "toggle", id)

	shown := run(t, NewChecklistCommand(), "show", "--date", "2026-02-28")
	assert.Contains(t, shown, "Checklist 2026-02-28")
	assert.Contains(t, shown, "[x] water plants")
	assert.Contains(t, shown, "ferns")

	created := run(t, NewReportCommand(), "create", "--date", "2026-02-28", "--summary", "tidy")
	assert.Contains(t, created, "Summary: tidy")

	reportID := strings.Fields(created)[1]
	var doc reportDoc
	require.NoError(t, yaml.Unmarshal([]byte(run(t, NewReportCommand(), "show", reportID, "-o", "yaml")), &doc))
	assert.Equal(t, "2026-02-28", doc.Date)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, []string{"ferns"}, doc.Items[0].SubItems)

	run(t, NewChecklistCommand(), "rm", id)
	listed := run(t, NewReportCommand(), "list")
	assert.Contains(t, listed, "2026-02-28  1/1 done")
}
