package qbk

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/hesusruiz/vcutils/yaml"
	"github.com/spf13/cast"
)

// Recognized encoder selections.
const (
	EncodingBoostbook = "boostbook"
	EncodingHTML      = "html"
)

// Defaults used by the post-processor when the user did not specify values.
const (
	DefaultIndent    = 2
	DefaultLineWidth = 79
)

// Config is the full configuration surface consumed by the core. It is
// assembled once by the CLI layer, before any parse begins, and treated
// as read-only from then on so that multiple sequential parses in one
// process run stay deterministic and independent.
type Config struct {
	// Encoding selects the output schema, EncodingBoostbook or EncodingHTML.
	Encoding string

	// PrettyPrint enables the structural reformatting pass on the output.
	PrettyPrint bool

	// Indent and LineWidth drive the pretty-printer. Negative values
	// select the defaults.
	Indent    int
	LineWidth int

	// Defines holds command-line macro definitions in "name=value" form,
	// evaluated before the document body.
	Defines []string

	// IncludePath lists directories searched by the include directive,
	// after the directory of the including file.
	IncludePath []string

	// MSErrors selects the editor-friendly diagnostic convention.
	MSErrors bool

	// Debug freezes the timestamp macros to a fixed date so output is
	// reproducible, and raises the logging verbosity.
	Debug bool

	// Now is the timestamp rendered in the document info and exposed
	// through the __DATE__ and __TIME__ macros. Resolved once at startup.
	Now time.Time
}

// NewConfig returns a configuration with the documented defaults:
// boostbook output, pretty printing on, and the real current time.
func NewConfig() *Config {
	return &Config{
		Encoding:    EncodingBoostbook,
		PrettyPrint: true,
		Indent:      -1,
		LineWidth:   -1,
		Now:         time.Now(),
	}
}

// FixedTimestamp is the reproducible time used in debug mode.
func FixedTimestamp() time.Time {
	return time.Date(2000, time.December, 20, 12, 0, 0, 0, time.Local)
}

// OutputName derives the default output file name from the input name,
// replacing its extension according to the selected encoding.
func (cfg *Config) OutputName(inputName string) string {
	ext := ".xml"
	if cfg.Encoding == EncodingHTML {
		ext = ".html"
	}
	old := filepath.Ext(inputName)
	if old == "" {
		return inputName + ext
	}
	return strings.TrimSuffix(inputName, old) + ext
}

// LoadDefaultsFile merges defaults from an optional YAML file into the
// configuration. Values given explicitly on the command line win, so
// only fields still at their zero/default value are touched.
// A missing file is not an error.
func (cfg *Config) LoadDefaultsFile(fileName string) error {
	data, err := yaml.ParseYamlFile(fileName)
	if err != nil {
		return nil
	}

	if cfg.Encoding == "" {
		cfg.Encoding = data.String("qbk.encoding", EncodingBoostbook)
	}
	if cfg.Indent < 0 {
		if v := data.String("qbk.indent"); v != "" {
			cfg.Indent = cast.ToInt(v)
		}
	}
	if cfg.LineWidth < 0 {
		if v := data.String("qbk.linewidth"); v != "" {
			cfg.LineWidth = cast.ToInt(v)
		}
	}
	if len(cfg.IncludePath) == 0 {
		if v := data.String("qbk.includepath"); v != "" {
			cfg.IncludePath = cast.ToStringSlice(strings.Split(v, string(filepath.ListSeparator)))
		}
	}
	return nil
}
