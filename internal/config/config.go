// =============================================================================
// PO Payment Schedule - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration.
//
// CONFIGURATION SOURCES:
//   1. Main Config (config.yaml): input paths, output naming, CSV settings,
//      pipeline policy and the reference date.
//   2. Environment (NETSUITE_*): NetSuite endpoints and credentials. See
//      netsuite.go. A .env file in the working directory is loaded first by
//      the CLI.
//
// A missing config.yaml is not an error: every setting has a default and the
// CLI flags fill in the input paths.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/po-payment-schedule/internal/types"
)

// ReferenceDateLayout is the layout of MainConfig.ReferenceDate.
const ReferenceDateLayout = "2006-01-02"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Inputs holds the four files a processing run reads.
	Inputs InputPaths `yaml:"inputs"`

	// CSVSettings applies to both reference tables (term definitions and the
	// paid ledger).
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where final JSON, HTML and XLSX files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir receives a dated copy of every input used by a run when
	// archiving is enabled.
	// Default: "./archive"
	ArchiveDir string `yaml:"archive_dir"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat, HTMLFormat and XLSXFormat define output file names.
	// Placeholders:
	//   {date}      - Run date as Mon_D (e.g. Mar_5)
	//   {timestamp} - Run time (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	OutputFormat string `yaml:"output_format"`
	HTMLFormat   string `yaml:"html_format"`
	XLSXFormat   string `yaml:"xlsx_format"`

	// DropFields are removed from every record of the final JSON. A nil list
	// means DefaultDropFields; an explicit empty list keeps every field.
	DropFields []string `yaml:"drop_fields"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel: "debug", "info", "warn", "error". Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat: "text" or "json". Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// Policy selects the business-rule variant. See types.Policy.
	Policy PolicyConfig `yaml:"policy"`

	// ReferenceDate pins "now" for anchor bucketing (YYYY-MM-DD). Empty
	// means the wall clock.
	ReferenceDate string `yaml:"reference_date"`

	// Validation tunes the PO line checks.
	Validation ValidationConfig `yaml:"validation"`
}

// ValidationConfig controls how validation issues affect a run.
type ValidationConfig struct {
	// WarningsAsErrors aborts the run when any PO line has an issue.
	// Default: false (issues are logged and written to the validation log).
	WarningsAsErrors bool `yaml:"warnings_as_errors"`
}

// InputPaths names the input files of a processing run.
type InputPaths struct {
	POSource        string `yaml:"po_source"`
	Vendors         string `yaml:"vendors"`
	TermDefinitions string `yaml:"term_definitions"`
	PaidLedger      string `yaml:"paid_ledger"`
}

// PolicyConfig is a preset plus optional per-field overrides.
// Empty strings and a nil bool leave the preset value in place.
type PolicyConfig struct {
	Preset                   string `yaml:"preset"`
	BaseLineSelection        string `yaml:"base_line_selection"`
	FilterClosedOrMissingERD *bool  `yaml:"filter_closed_or_missing_erd"`
	RemainderBase            string `yaml:"remainder_base"`
	DateBucketGranularity    string `yaml:"date_bucket_granularity"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows in the CSV file.
	// Multi-row headers are merged column-wise with a space.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the row number where the actual data begins.
	// Row numbering starts at 1.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`
}

// DefaultCSVSettings returns single-header comma-separated settings.
func DefaultCSVSettings() CSVSettings {
	s := CSVSettings{}
	applyCSVDefaults(&s)
	return s
}

// DefaultDropFields are the pass-through columns removed from the final
// report. They are descriptive export columns no downstream sheet reads.
var DefaultDropFields = []string{
	"As Of Date",
	"Coordinator",
	"Brand",
	"Whse Internal ID",
	"Warehouse",
	"Seller Account",
	"Amazon Store Name",
	"Memo",
	"ESTIMATED READY DATE",
	"SKU",
	"Assembly SKU",
	"Description",
	"Cost in PO Currency",
	"Currency",
	"Early Pickup date",
	"Late Pickup Date",
	"Earliest Delivery Date",
	"LATEST DELIVERY DATE",
	"Quantity Received",
	"Quantity on Inbound Shipments",
	"Supplier Shipping Country Code",
	"Supplier Billing Country Code",
	"Supplier Ship From Country Code (From PO)",
	"Closed",
	"Custom Form",
	"XPO Integration Status",
	"Outbound Doc Sent to XPO Connect",
	"Send to XPO Connect",
	"Destination Type",
	"INCOTERM",
	"ARN#",
	"FBA Shipment ID#",
	"3PL FCID#",
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. An empty path or
//     a file that does not exist yields Default().
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	if configPath == "" {
		return Default(), nil
	}

	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Apply default values.
	applyMainConfigDefaults(&config)

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", configPath, err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "./archive"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "final_{date}.json"
	}
	if config.HTMLFormat == "" {
		config.HTMLFormat = "summary_{date}.html"
	}
	if config.XLSXFormat == "" {
		config.XLSXFormat = "Payment_Schedule_{date}.xlsx"
	}
	if config.DropFields == nil {
		config.DropFields = append([]string(nil), DefaultDropFields...)
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.Policy.Preset == "" {
		config.Policy.Preset = types.PresetDefault
	}
	applyCSVDefaults(&config.CSVSettings)
}

// applyCSVDefaults fills unset CSV settings.
func applyCSVDefaults(s *CSVSettings) {
	if s.Delimiter == "" {
		s.Delimiter = ","
	}
	if s.HeaderRows == 0 {
		s.HeaderRows = 1
	}
	if s.DataStartRow == 0 {
		s.DataStartRow = s.HeaderRows + 1
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}
	switch strings.ToLower(config.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", config.LogFormat)
	}

	if config.CSVSettings.HeaderRows < 1 {
		return fmt.Errorf("csv_settings.header_rows must be at least 1")
	}
	if config.CSVSettings.DataStartRow <= config.CSVSettings.HeaderRows {
		return fmt.Errorf("csv_settings.data_start_row must come after the header rows")
	}

	if _, err := config.ResolvePolicy(); err != nil {
		return err
	}
	if config.ReferenceDate != "" {
		if _, err := time.Parse(ReferenceDateLayout, config.ReferenceDate); err != nil {
			return fmt.Errorf("reference_date %q: expected YYYY-MM-DD", config.ReferenceDate)
		}
	}

	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ResolvePolicy applies the preset and then every non-empty override.
func (c *MainConfig) ResolvePolicy() (types.Policy, error) {
	policy, err := types.PolicyPreset(c.Policy.Preset)
	if err != nil {
		return types.Policy{}, err
	}

	if v := c.Policy.BaseLineSelection; v != "" {
		policy.BaseLineSelection = types.BaseLineSelection(v)
	}
	if c.Policy.FilterClosedOrMissingERD != nil {
		policy.FilterClosedOrMissingERD = *c.Policy.FilterClosedOrMissingERD
	}
	if v := c.Policy.RemainderBase; v != "" {
		policy.RemainderBase = types.RemainderBase(v)
	}
	if v := c.Policy.DateBucketGranularity; v != "" {
		policy.DateBucketGranularity = types.BucketGranularity(v)
	}

	if err := policy.Validate(); err != nil {
		return types.Policy{}, fmt.Errorf("policy: %w", err)
	}
	return policy, nil
}

// ReferenceTime returns the pinned reference date, or now when none is set.
func (c *MainConfig) ReferenceTime(now time.Time) (time.Time, error) {
	if c.ReferenceDate == "" {
		return now, nil
	}
	t, err := time.Parse(ReferenceDateLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("reference_date %q: %w", c.ReferenceDate, err)
	}
	return t, nil
}
