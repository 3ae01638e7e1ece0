package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprint.yml")
	writeFile(t, path, `
shell: bash -c
prompt: "> "
watch:
  debounce: 250ms
  grace: 2s
  ignore_file: .sprintignore
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bash -c", cfg.ShellOrDefault())
	assert.Equal(t, "> ", cfg.PromptOrDefault())
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.DebounceDuration())
	assert.Equal(t, 2*time.Second, cfg.Watch.GraceDuration())
	assert.Equal(t, ".sprintignore", cfg.Watch.IgnoreFileOrDefault())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprint.toml")
	writeFile(t, path, `
fence = "~~~~"
info = "bash"

[watch]
debounce = "1s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "~~~~", cfg.FenceOrDefault())
	assert.Equal(t, "bash", cfg.InfoOrDefault())
	assert.Equal(t, time.Second, cfg.Watch.DebounceDuration())
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprint.yml")
	writeFile(t, path, "shell: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultShell, cfg.ShellOrDefault())
	assert.Equal(t, DefaultFence, cfg.FenceOrDefault())
	assert.Equal(t, DefaultInfo, cfg.InfoOrDefault())
	assert.Equal(t, DefaultPrompt, cfg.PromptOrDefault())
	assert.Equal(t, DefaultDebounce, cfg.Watch.DebounceDuration())
	assert.Equal(t, DefaultGrace, cfg.Watch.GraceDuration())
	assert.Equal(t, DefaultIgnore, cfg.Watch.IgnoreFileOrDefault())
}

func TestDurationFallbacks(t *testing.T) {
	w := WatchConfig{Debounce: "not-a-duration", Grace: "-1s"}
	assert.Equal(t, DefaultDebounce, w.DebounceDuration())
	assert.Equal(t, DefaultGrace, w.GraceDuration())
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, filepath.Join(root, "sprint.yaml"), "shell: sh -c\n")

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sprint.yaml"), found)
}

func TestFindConfigFileMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := FindConfigFile(dir)
	assert.Error(t, err)
}
