package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigReadsAllFields(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
entry: scripts/main.rill
trace: false
workers: 4
loop_limit: 500
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path)
	require.Equal(t, "scripts/main.rill", cfg.Entry)
	require.NotNil(t, cfg.Trace)
	require.False(t, *cfg.Trace)
	require.Equal(t, 4, cfg.Workers)
	require.NotNil(t, cfg.LoopLimit)
	require.Equal(t, 500, *cfg.LoopLimit)
}

// An empty file is a valid config: everything stays at its default.
func TestLoadConfigEmptyFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path)
	require.Empty(t, cfg.Entry)
	require.Nil(t, cfg.Trace)
	require.Zero(t, cfg.Workers)
	require.Nil(t, cfg.LoopLimit)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "entyr: main.rill\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	require.ErrorContains(t, err, "config: parse")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.ErrorContains(t, err, "config: empty path")
}

func TestLoopLimitSpellings(t *testing.T) {
	cases := []struct {
		yaml string
		want *int
	}{
		{"loop_limit: 500", intPtr(500)},
		{"loop_limit: 0", intPtr(0)},
		{"loop_limit: none", intPtr(0)},
		{"loop_limit: off", intPtr(0)},
		{"loop_limit: null", nil},
		{"loop_limit:", nil},
		{"", nil},
	}
	for _, tc := range cases {
		path := writeConfig(t, t.TempDir(), tc.yaml+"\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err, tc.yaml)
		if tc.want == nil {
			require.Nil(t, cfg.LoopLimit, tc.yaml)
		} else {
			require.NotNil(t, cfg.LoopLimit, tc.yaml)
			require.Equal(t, *tc.want, *cfg.LoopLimit, tc.yaml)
		}
	}
}

func intPtr(n int) *int { return &n }

func TestLoopLimitRejections(t *testing.T) {
	cases := []struct {
		yaml    string
		message string
	}{
		{"loop_limit: -1", "loop_limit must not be negative"},
		{"loop_limit: fast", `loop_limit must be a number or "none"`},
		{"loop_limit: [1, 2]", `loop_limit must be a number or "none", found !!seq`},
	}
	for _, tc := range cases {
		path := writeConfig(t, t.TempDir(), tc.yaml+"\n")
		_, err := LoadConfig(path)
		require.Error(t, err, tc.yaml)
		require.ErrorContains(t, err, tc.message, tc.yaml)
	}
}

func TestValidationAggregatesIssues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "entry: main.txt\nworkers: -2\n")
	_, err := LoadConfig(path)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Issues, 2)
	require.Equal(t,
		"config validation failed:\n- entry \"main.txt\" must name a .rill file\n- workers must not be negative",
		vErr.Error())
}

func TestFindConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := writeConfig(t, root, "workers: 1\n")

	found, err := FindConfig(nested)
	require.NoError(t, err)
	require.Equal(t, want, found)
}

func TestFindConfigPrefersTheNearest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "inner")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeConfig(t, root, "workers: 1\n")
	near := writeConfig(t, nested, "workers: 2\n")

	found, err := FindConfig(nested)
	require.NoError(t, err)
	require.Equal(t, near, found)
}

func TestFindConfigMissing(t *testing.T) {
	_, err := FindConfig(t.TempDir())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoConfig)
	require.ErrorContains(t, err, "no rill.yml found from")
}

func TestEntryPathResolution(t *testing.T) {
	cfg := &Config{Path: "/proj/rill.yml", Entry: "scripts/main.rill"}
	require.Equal(t, filepath.Join("/proj", "scripts", "main.rill"), cfg.EntryPath())

	cfg = &Config{Path: "/proj/rill.yml", Entry: "/elsewhere/main.rill"}
	require.Equal(t, "/elsewhere/main.rill", cfg.EntryPath())

	require.Empty(t, (&Config{Path: "/proj/rill.yml"}).EntryPath())
	var nilCfg *Config
	require.Empty(t, nilCfg.EntryPath())
}
