package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"AUTHMAP_VALIDATE_OUTPUT", "SKILLSYNC_ZIP", "SKILLSYNC_REPO_DIR", "LOG_LEVEL", "LOG_FILE",
		"LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS", "LOG_COMPRESS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.False(t, cfg.ValidateOutput)
	assert.Equal(t, "", cfg.SkillZip)
	assert.Equal(t, "", cfg.RepoDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.LogFile)
	assert.Equal(t, 10, cfg.LogMaxSizeMB)
	assert.Equal(t, 5, cfg.LogMaxBackups)
	assert.Equal(t, 28, cfg.LogMaxAgeDays)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AUTHMAP_VALIDATE_OUTPUT", "yes")
	t.Setenv("SKILLSYNC_ZIP", "/tmp/skill.zip")
	t.Setenv("SKILLSYNC_REPO_DIR", "/tmp/repo")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_MAX_SIZE_MB", "not-a-number")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()
	assert.True(t, cfg.ValidateOutput)
	assert.Equal(t, "/tmp/skill.zip", cfg.SkillZip)
	assert.Equal(t, "/tmp/repo", cfg.RepoDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10, cfg.LogMaxSizeMB)
	assert.False(t, cfg.LogCompress)

	lc := cfg.Logging()
	assert.Equal(t, "debug", lc.Level)
	assert.False(t, lc.Compress)
}

func TestGetEnvBool_UnknownValueKeepsDefault(t *testing.T) {
	t.Setenv("AUTHMAP_TEST_BOOL", "maybe")
	assert.True(t, getEnvBool("AUTHMAP_TEST_BOOL", true))
	assert.False(t, getEnvBool("AUTHMAP_TEST_BOOL", false))
}
