package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file `rill run` picks up
// from the working directory or any parent.
const ConfigFileName = "rill.yml"

// ErrNoConfig is returned by FindConfig when no rill.yml exists between the
// start directory and the filesystem root. Callers treat it as "use
// defaults", not as a failure.
var ErrNoConfig = errors.New("rill.yml not found")

// Config carries project-level defaults for running programs. Command-line
// flags override every field.
type Config struct {
	Path      string
	Entry     string
	Trace     *bool
	Workers   int
	LoopLimit *int
}

// ValidationError aggregates configuration problems so users see all of
// them at once.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses and validates a rill.yml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{Path: absPath}, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg := raw.toConfig(absPath)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig walks from start upward and returns the nearest rill.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrNoConfig)
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.Entry != "" && filepath.Ext(c.Entry) != ".rill" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must name a .rill file", c.Entry))
	}
	if c.Workers < 0 {
		errs.Issues = append(errs.Issues, "workers must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// EntryPath resolves the configured entry file relative to the config's own
// directory.
func (c *Config) EntryPath() string {
	if c == nil || c.Entry == "" {
		return ""
	}
	if filepath.IsAbs(c.Entry) {
		return filepath.Clean(c.Entry)
	}
	return filepath.Join(filepath.Dir(c.Path), filepath.FromSlash(c.Entry))
}

type configFile struct {
	Entry     string         `yaml:"entry"`
	Trace     *bool          `yaml:"trace"`
	Workers   int            `yaml:"workers"`
	LoopLimit loopLimitValue `yaml:"loop_limit"`
}

func (cf configFile) toConfig(path string) *Config {
	cfg := &Config{
		Path:    path,
		Entry:   strings.TrimSpace(cf.Entry),
		Trace:   cf.Trace,
		Workers: cf.Workers,
	}
	if cf.LoopLimit.set {
		limit := cf.LoopLimit.value
		cfg.LoopLimit = &limit
	}
	return cfg
}

// loopLimitValue accepts either a number of iterations or the string
// "none"/"off" to disable the ceiling.
type loopLimitValue struct {
	set   bool
	value int
}

func (l *loopLimitValue) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
		switch strings.ToLower(strings.TrimSpace(value.Value)) {
		case "", "~", "null":
			return nil
		case "none", "off":
			l.set, l.value = true, 0
			return nil
		}
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("loop_limit must be a number or \"none\"")
		}
		if n < 0 {
			return fmt.Errorf("loop_limit must not be negative")
		}
		l.set, l.value = true, n
		return nil
	default:
		return fmt.Errorf("loop_limit must be a number or \"none\", found %s", value.ShortTag())
	}
}
