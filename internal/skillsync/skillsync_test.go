package skillsync

import (
	"archive/zip"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/authmap/pkg/types"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func statuses(r *Report) map[string]types.SyncStatus {
	out := make(map[string]types.SyncStatus)
	for _, res := range r.Results {
		out[res.Path] = res.Status
	}
	return out
}

func TestSyncer_Run(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "auth-mapper.zip")
	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.Mkdir(repo, 0o755))

	writeZip(t, zipPath, map[string]string{
		"auth-mapper/SKILL.md":                  "---\nname: auth-mapper\n---\n\n# Auth mapper\n",
		"auth-mapper/scripts/parse.py":          "print('hi')\n",
		"auth-mapper/references/categories.md":  "# Categories\n",
		"auth-mapper/references/nested/skip.md": "not synced\n",
	})

	syncer := New(zipPath, repo, WithTempDir(dir), WithLogger(quietLogger()))

	report, err := syncer.Run()
	require.NoError(t, err)
	assert.True(t, report.HasChanges())
	assert.Equal(t, map[string]types.SyncStatus{
		"prompt.md":                       types.SyncCreated,
		"platforms/gemini/GEMINI.md":      types.SyncCreated,
		"scripts/parse.py":                types.SyncCreated,
		"references/categories.md":        types.SyncCreated,
		"platforms/claude/auth-mapper.zip": types.SyncCreated,
	}, statuses(report))

	prompt, err := os.ReadFile(filepath.Join(repo, "prompt.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Auth mapper\n", string(prompt))
	_, err = os.Stat(filepath.Join(repo, "references", "nested"))
	assert.True(t, os.IsNotExist(err))

	// Second run changes nothing.
	report, err = syncer.Run()
	require.NoError(t, err)
	assert.False(t, report.HasChanges())
	assert.Len(t, report.Unchanged(), 5)

	// Local edit is overwritten.
	require.NoError(t, os.WriteFile(filepath.Join(repo, "scripts", "parse.py"), []byte("edited\n"), 0o644))
	report, err = syncer.Run()
	require.NoError(t, err)
	assert.Equal(t, []types.SyncResult{{Path: "scripts/parse.py", Status: types.SyncUpdated}}, report.Changed())

	// Temp dirs are cleaned up.
	matches, err := filepath.Glob(filepath.Join(dir, "skillsync-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSyncer_Run_FlatZipWithoutSkillMD(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "flat.zip")
	repo := t.TempDir()
	writeZip(t, zipPath, map[string]string{
		"scripts/a.sh": "echo a\n",
		"README.md":    "readme\n",
	})

	report, err := New(zipPath, repo, WithLogger(quietLogger())).Run()
	require.NoError(t, err)
	assert.Equal(t, map[string]types.SyncStatus{
		"scripts/a.sh":              types.SyncCreated,
		"platforms/claude/flat.zip": types.SyncCreated,
	}, statuses(report))
}

func TestSyncer_Run_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "missing.zip"), dir).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill zip not found")

	zipPath := filepath.Join(dir, "ok.zip")
	writeZip(t, zipPath, map[string]string{"SKILL.md": "x"})
	_, err = New(zipPath, filepath.Join(dir, "no-repo")).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repo directory not found")

	notZip := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0o644))
	_, err = New(notZip, dir).Run()
	require.Error(t, err)
}

func TestUnzip_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")
	writeZip(t, zipPath, map[string]string{"../escape.txt": "x"})

	err := Unzip(zipPath, filepath.Join(dir, "out"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteIfDifferent(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a", "b.txt")

	status, err := WriteIfDifferent(dst, []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, types.SyncCreated, status)

	status, err = WriteIfDifferent(dst, []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, types.SyncUnchanged, status)

	status, err = WriteIfDifferent(dst, []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, types.SyncUpdated, status)

	status, err = WriteIfDifferent(dst, []byte{})
	require.NoError(t, err)
	assert.Equal(t, types.SyncUpdated, status)

	status, err = WriteIfDifferent(dst, []byte{})
	require.NoError(t, err)
	assert.Equal(t, types.SyncUnchanged, status)
}

func TestReport_Print(t *testing.T) {
	r := &Report{}
	r.add("scripts/b.py", types.SyncUpdated)
	r.add("prompt.md", types.SyncUnchanged)
	r.add("scripts/a.py", types.SyncCreated)

	var buf bytes.Buffer
	r.Print(&buf)
	assert.Equal(t, "Changes:\n"+
		"  created     scripts/a.py\n"+
		"  updated     scripts/b.py\n"+
		"\n"+
		"Unchanged: 1 file(s): prompt.md\n\n"+
		"Sync complete.\n", buf.String())

	buf.Reset()
	(&Report{Results: []types.SyncResult{{Path: "x", Status: types.SyncUnchanged}}}).Print(&buf)
	assert.Contains(t, buf.String(), "Repo is already up to date.")
}
