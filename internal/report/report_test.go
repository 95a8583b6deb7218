package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_SectionAccounting(t *testing.T) {
	r := New("/work", "/work/guide.md", time.Now())

	r.AddSection("a.md", true, 5)
	r.AddSection("b.md", false, 0)
	r.AddSection("c.md", true, 7)

	assert.Equal(t, 2, r.Included)
	assert.Equal(t, 3, r.Total)
	require.Len(t, r.Sections, 3)
	assert.Equal(t, "b.md", r.Sections[1].Name)
	assert.False(t, r.Sections[1].Included)
}

func TestBuildReport_FinishSuccess(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	r := New("/work", "/work/guide.md", start)

	r.Finish(start.Add(250*time.Millisecond), nil)

	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, int64(250), r.DurationMS)
	assert.Equal(t, "2026-03-14T09:26:53Z", r.StartedAt)
	assert.Empty(t, r.Error)
}

func TestBuildReport_FinishError(t *testing.T) {
	r := New("/work", "/work/guide.md", time.Now())

	r.Finish(time.Now(), errors.New("disk full"))

	assert.Equal(t, "error", r.Status)
	assert.Equal(t, "disk full", r.Error)
}

func TestBuildReport_SaveRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	r := New("/work", "/work/guide.md", start)
	r.CommitSHA = "abc1234"
	r.AddSection("a.md", true, 5)
	r.AddSignal("section_missing", "warning", "Section b.md is absent and was skipped.")
	r.Lines = 12
	r.Bytes = 345
	r.Finish(start.Add(time.Second), nil)

	path := filepath.Join(t.TempDir(), "build_report.json")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded BuildReport
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, Version, loaded.Version)
	assert.Equal(t, "ok", loaded.Status)
	assert.Equal(t, "abc1234", loaded.CommitSHA)
	assert.Equal(t, 345, int(loaded.Bytes))
	require.Len(t, loaded.Signals, 1)
	assert.Equal(t, "section_missing", loaded.Signals[0].Code)
}
