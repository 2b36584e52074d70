package types

const (
	// DefaultSuffix is appended to the input base name when no output path
	// is given in single-file mode.
	DefaultSuffix = "-simplified"

	// DefaultExtension selects files in batch mode and names default outputs.
	DefaultExtension = ".xyz"
)

// LedgerConfig holds settings for the optional SQLite conversion history.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// SkipUnchanged skips inputs whose digest and output path match the
	// last successful conversion recorded in the ledger.
	SkipUnchanged bool `json:"skip_unchanged" yaml:"skip_unchanged" mapstructure:"skip_unchanged"`
}

// ReportConfig holds settings for the run report.
type ReportConfig struct {
	// Path is the report destination. A .yaml or .yml extension selects
	// YAML, anything else JSON. Empty disables the report.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Config groups all settings loaded from the config file, environment, and flags.
type Config struct {
	Suffix    string       `json:"suffix" yaml:"suffix" mapstructure:"suffix"`
	Extension string       `json:"extension" yaml:"extension" mapstructure:"extension"`
	Verbose   bool         `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	Ledger    LedgerConfig `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Report    ReportConfig `json:"report" yaml:"report" mapstructure:"report"`
}
