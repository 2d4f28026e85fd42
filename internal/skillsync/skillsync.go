// Package skillsync mirrors a packaged skill bundle (a zip) into a
// version-controlled repository tree, writing only files whose bytes differ.
package skillsync

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/usestring/authmap/pkg/types"
)

// Syncer syncs one skill zip into one repository directory.
type Syncer struct {
	skillZip string
	repoDir  string
	tempDir  string
	logger   *slog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithTempDir sets the parent directory used for unpacking the zip.
func WithTempDir(dir string) Option {
	return func(s *Syncer) {
		s.tempDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// New creates a Syncer for the given zip and repository directory.
func New(skillZip, repoDir string, opts ...Option) *Syncer {
	s := &Syncer{
		skillZip: skillZip,
		repoDir:  repoDir,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report lists the status of every destination file touched by a sync.
type Report struct {
	Results []types.SyncResult
}

func (r *Report) add(p string, status types.SyncStatus) {
	r.Results = append(r.Results, types.SyncResult{Path: p, Status: status})
}

// Changed returns created and updated files, sorted by path.
func (r *Report) Changed() []types.SyncResult {
	return r.filter(func(s types.SyncStatus) bool { return s != types.SyncUnchanged })
}

// Unchanged returns unchanged files, sorted by path.
func (r *Report) Unchanged() []types.SyncResult {
	return r.filter(func(s types.SyncStatus) bool { return s == types.SyncUnchanged })
}

func (r *Report) filter(keep func(types.SyncStatus) bool) []types.SyncResult {
	out := make([]types.SyncResult, 0, len(r.Results))
	for _, res := range r.Results {
		if keep(res.Status) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// HasChanges reports whether any file was created or updated.
func (r *Report) HasChanges() bool {
	return len(r.Changed()) > 0
}

// Print writes a human-readable change listing to w.
func (r *Report) Print(w io.Writer) {
	changed, unchanged := r.Changed(), r.Unchanged()

	if len(changed) > 0 {
		fmt.Fprintln(w, "Changes:")
		for _, res := range changed {
			fmt.Fprintf(w, "  %-10s  %s\n", res.Status, res.Path)
		}
		fmt.Fprintln(w)
	}

	if len(unchanged) > 0 {
		names := make([]string, 0, len(unchanged))
		for _, res := range unchanged {
			names = append(names, res.Path)
		}
		fmt.Fprintf(w, "Unchanged: %d file(s): %s\n\n", len(unchanged), strings.Join(names, ", "))
	}

	if len(changed) == 0 {
		fmt.Fprintln(w, "Repo is already up to date.")
		return
	}
	fmt.Fprintln(w, "Sync complete.")
}

// Run unpacks the skill zip and syncs its contents into the repository:
//
//	SKILL.md      -> prompt.md, platforms/gemini/GEMINI.md (front matter stripped)
//	scripts/*     -> scripts/*
//	references/*  -> references/*
//	<zip>         -> platforms/claude/<zip name>
func (s *Syncer) Run() (*Report, error) {
	if _, err := os.Stat(s.skillZip); err != nil {
		return nil, fmt.Errorf("skill zip not found: %s: %w", s.skillZip, err)
	}
	if info, err := os.Stat(s.repoDir); err != nil {
		return nil, fmt.Errorf("repo directory not found: %s: %w", s.repoDir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("repo directory is not a directory: %s", s.repoDir)
	}

	tmp, err := os.MkdirTemp(s.tempDir, "skillsync-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := Unzip(s.skillZip, tmp); err != nil {
		return nil, err
	}

	root, err := skillRoot(tmp)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	if content, err := os.ReadFile(filepath.Join(root, "SKILL.md")); err == nil {
		meta, body, _ := SplitFrontMatter(string(content))
		if meta != nil && meta.Name != "" {
			s.logger.Info("syncing skill", "name", meta.Name)
		}
		for _, dst := range []string{"prompt.md", "platforms/gemini/GEMINI.md"} {
			status, err := WriteIfDifferent(filepath.Join(s.repoDir, filepath.FromSlash(dst)), []byte(body))
			if err != nil {
				return nil, err
			}
			report.add(dst, status)
		}
	} else {
		s.logger.Warn("SKILL.md not found in zip, skipping prompt.md and GEMINI.md", "zip", s.skillZip)
	}

	for _, dir := range []string{"scripts", "references"} {
		src := filepath.Join(root, dir)
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		results, err := SyncDir(src, filepath.Join(s.repoDir, dir))
		if err != nil {
			return nil, err
		}
		for _, res := range results {
			report.add(path.Join(dir, res.Path), res.Status)
		}
	}

	zipName := filepath.Base(s.skillZip)
	status, err := SyncFile(s.skillZip, filepath.Join(s.repoDir, "platforms", "claude", zipName), nil)
	if err != nil {
		return nil, err
	}
	report.add(path.Join("platforms/claude", zipName), status)

	return report, nil
}

// skillRoot descends into dir when it holds exactly one subdirectory and nothing else.
func skillRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

// Unzip extracts archive into dst. Entries that would escape dst are rejected.
func Unzip(archive, dst string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening %s: %w", archive, err)
	}
	defer zr.Close()

	base := filepath.Clean(dst)
	for _, f := range zr.File {
		target := filepath.Join(base, filepath.FromSlash(f.Name))
		if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return out.Close()
}
