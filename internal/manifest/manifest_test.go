package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ThirteenOrderedSections(t *testing.T) {
	m := Default()

	assert.Equal(t, 13, m.Len())
	assert.Equal(t, "01-introduction.md", m.Sentinel())
	assert.Equal(t, "13-troubleshooting.md", m.Sections[12])
}

func TestSentinel_EmptyManifest(t *testing.T) {
	assert.Equal(t, "", Manifest{}.Sentinel())
}

func TestVerify_ReportsFoundAndMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("Hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.md"), []byte("World"), 0644))

	m := New([]string{"a.md", "b.md", "c.md"})
	statuses := m.Verify(dir)

	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Found)
	assert.Equal(t, int64(5), statuses[0].Size)
	assert.False(t, statuses[1].Found)
	assert.True(t, statuses[2].Found)
}

func TestVerify_DirectoryDoesNotCountAsSection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a.md"), 0755))

	statuses := New([]string{"a.md"}).Verify(dir)

	assert.False(t, statuses[0].Found)
}

func TestDiscover_FindsOrphansAndSkipsIgnoredDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "buried.md"), []byte("x"), 0644))

	orphans, err := Discover(dir, New([]string{"a.md"}))

	require.NoError(t, err)
	assert.Equal(t, []string{"draft.md"}, orphans)
}

func TestDiscover_SkipList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "complete-guide.md"), []byte("x"), 0644))

	orphans, err := Discover(dir, New([]string{"a.md"}), "complete-guide.md")

	require.NoError(t, err)
	assert.Empty(t, orphans)
}
