// Command skillsync mirrors a packaged skill zip into its repository checkout.
//
// Exit codes: 0 when the repository was already up to date, 1 when files were
// created or updated, 2 on error.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/usestring/authmap/internal/config"
	"github.com/usestring/authmap/internal/logging"
	"github.com/usestring/authmap/internal/skillsync"
)

const (
	exitUpToDate = 0
	exitChanged  = 1
	exitError    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	cleanup, err := logging.SetupWriter(cfg.Logging(), stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to set up logging: %v\n", err)
		return exitError
	}
	defer cleanup()

	fs := flag.NewFlagSet("skillsync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	skillZip := fs.String("skill-zip", cfg.SkillZip, "path to the packaged skill zip (env SKILLSYNC_ZIP)")
	repoDir := fs.String("repo-dir", cfg.RepoDir, "path to the repository checkout (env SKILLSYNC_REPO_DIR)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitUpToDate
		}
		return exitError
	}

	if *skillZip == "" || *repoDir == "" {
		fmt.Fprintln(stderr, "error: both -skill-zip and -repo-dir are required")
		fs.PrintDefaults()
		return exitError
	}

	zipPath, err := expandPath(*skillZip)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	repoPath, err := expandPath(*repoDir)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	fmt.Fprintf(stdout, "Skill zip : %s\n", zipPath)
	fmt.Fprintf(stdout, "Repo dir  : %s\n\n", repoPath)

	report, err := skillsync.New(zipPath, repoPath).Run()
	if err != nil {
		slog.Error("sync failed", "error", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	report.Print(stdout)
	if report.HasChanges() {
		return exitChanged
	}
	return exitUpToDate
}

// expandPath resolves a leading "~" and makes p absolute.
func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
