package interpreter_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rill-lang/rill/pkg/runtime"
)

// fixture is one scripted scenario from a testdata file. Empty expectation
// fields are skipped, so a fixture asserts only what it cares about.
type fixture struct {
	Name          string `yaml:"name"`
	Source        string `yaml:"source"`
	Value         string `yaml:"value"`
	Stdout        string `yaml:"stdout"`
	Error         string `yaml:"error"`
	ErrorContains string `yaml:"error_contains"`
	TraceRows     *int   `yaml:"trace_rows"`
}

type fixtureFile struct {
	Fixtures []fixture `yaml:"fixtures"`
}

func TestFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no fixture files under testdata")

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			dec := yaml.NewDecoder(f)
			dec.KnownFields(true)
			var file fixtureFile
			require.NoError(t, dec.Decode(&file))
			require.NotEmpty(t, file.Fixtures)

			for _, fx := range file.Fixtures {
				fx := fx
				t.Run(fx.Name, func(t *testing.T) {
					runFixture(t, fx)
				})
			}
		})
	}
}

func runFixture(t *testing.T, fx fixture) {
	t.Helper()
	val, out, err := tryEval(fx.Source)

	if fx.Error != "" || fx.ErrorContains != "" {
		require.Error(t, err)
		var rerr *runtime.Error
		require.ErrorAs(t, err, &rerr)
		if fx.Error != "" {
			require.Equal(t, fx.Error, string(rerr.Kind))
		}
		if fx.ErrorContains != "" {
			require.Contains(t, rerr.Message, fx.ErrorContains)
		}
	} else {
		require.NoError(t, err)
	}

	if fx.Value != "" {
		require.NotNil(t, val)
		require.Equal(t, fx.Value, fmtVal(val))
	}
	if fx.Stdout != "" {
		require.Equal(t, fx.Stdout, stripTraceLines(out))
	}
	if fx.TraceRows != nil {
		require.Equal(t, *fx.TraceRows, strings.Count(out, "[trace] #"))
	}
}

// stripTraceLines drops trace rows so stdout fixtures only describe what the
// program itself printed.
func stripTraceLines(out string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(out, "\n") {
		if strings.HasPrefix(line, "[trace]") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
