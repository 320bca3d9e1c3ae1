// =============================================================================
// Zoho to Tally Converter - Configuration Module
// =============================================================================
//
// This module loads and manages the run configuration. There is exactly one
// configuration file per deployment (config.yaml); the mapping workbook it
// points at is owned by the mapping package.
//
// The configuration is loaded once at the start of a run and is read-only
// afterwards. Directories named in it are created on load so the individual
// stage commands never have to care.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// RESOLUTION MODE
// =============================================================================

// ResolutionMode controls what happens when a source account or party name
// has no row in the mapping workbook. It is an explicit enum rather than a
// boolean default so the failure behavior stays auditable.
type ResolutionMode string

const (
	// ModeStrict collects every unmapped name across the run and fails
	// once with the full list, so the workbook can be fixed in one pass.
	ModeStrict ResolutionMode = "strict"

	// ModeLenient substitutes the configured default ledger and logs a
	// warning per substitution.
	ModeLenient ResolutionMode = "lenient"
)

// BalancePolicy controls what happens to a voucher whose signed allocations
// do not sum to zero within the rounding tolerance.
type BalancePolicy string

const (
	// PolicySkip drops the voucher with a warning.
	PolicySkip BalancePolicy = "skip"

	// PolicyAdjust inserts a balancing allocation on the round-off ledger.
	PolicyAdjust BalancePolicy = "adjust"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full run configuration loaded from config.yaml.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// BackupZip is the path to the Zoho Books backup archive.
	BackupZip string `yaml:"backup_zip"`

	// ExtractedDir receives the unpacked CSV exports.
	// Default: "./zoho_extracted"
	ExtractedDir string `yaml:"extracted_dir"`

	// ProcessedDir receives the normalized tables written by the cleaning
	// stage and read by the generation stage.
	// Default: "./processed_data"
	ProcessedDir string `yaml:"processed_dir"`

	// OutputDir receives the generated Tally XML documents.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// MappingsFile is the user-editable XLSX workbook holding the ledger
	// and party mapping tables.
	// Default: "./mappings.xlsx"
	MappingsFile string `yaml:"mappings_file"`

	// =========================================================================
	// COMPANY SETTINGS
	// =========================================================================

	// CompanyName must match the Tally company the XML is imported into.
	CompanyName string `yaml:"company_name"`

	// CompanyStateCode is the issuing entity's GST state code. A voucher
	// whose party shares this code is intra-state (CGST+SGST); any other
	// code is inter-state (IGST).
	CompanyStateCode string `yaml:"company_state_code"`

	// DefaultCountry fills party addresses whose country column is blank.
	// Default: "India"
	DefaultCountry string `yaml:"default_country"`

	// BaseCurrency is the currency name written on ledger masters.
	// Default: "Rupees"
	BaseCurrency string `yaml:"base_currency"`

	// =========================================================================
	// POLICY SETTINGS
	// =========================================================================

	// ResolutionMode is "strict" or "lenient". Default: "strict".
	ResolutionMode ResolutionMode `yaml:"resolution_mode"`

	// DefaultLedger is the fallback used in lenient mode for names missing
	// from the mapping workbook. Default: "Suspense A/c"
	DefaultLedger string `yaml:"default_ledger"`

	// RoundingTolerance is the largest voucher imbalance (absolute value,
	// base currency) still considered balanced. Decimal text to avoid
	// float drift. Default: "0.01"
	RoundingTolerance string `yaml:"rounding_tolerance"`

	// BalancePolicy is "skip" or "adjust". Default: "adjust".
	BalancePolicy BalancePolicy `yaml:"balance_policy"`

	// RoundOffLedger receives the balancing allocation under the "adjust"
	// policy. Default: "Round Off"
	RoundOffLedger string `yaml:"round_off_ledger"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of "debug", "info", "warn", "error". Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json". Default: "text"
	LogFormat string `yaml:"log_format"`
}

// Tolerance parses RoundingTolerance into a decimal.
func (c *Config) Tolerance() decimal.Decimal {
	tol, err := decimal.NewFromString(c.RoundingTolerance)
	if err != nil || tol.Sign() <= 0 {
		return decimal.New(1, -2) // 0.01
	}
	return tol
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads, defaults and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.ExtractedDir == "" {
		cfg.ExtractedDir = "./zoho_extracted"
	}
	if cfg.ProcessedDir == "" {
		cfg.ProcessedDir = "./processed_data"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.MappingsFile == "" {
		cfg.MappingsFile = "./mappings.xlsx"
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = "India"
	}
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "Rupees"
	}
	if cfg.ResolutionMode == "" {
		cfg.ResolutionMode = ModeStrict
	}
	if cfg.DefaultLedger == "" {
		cfg.DefaultLedger = "Suspense A/c"
	}
	if cfg.RoundingTolerance == "" {
		cfg.RoundingTolerance = "0.01"
	}
	if cfg.BalancePolicy == "" {
		cfg.BalancePolicy = PolicyAdjust
	}
	if cfg.RoundOffLedger == "" {
		cfg.RoundOffLedger = "Round Off"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

// validate checks enum fields and creates the working directories.
func validate(cfg *Config) error {
	switch cfg.ResolutionMode {
	case ModeStrict, ModeLenient:
	default:
		return fmt.Errorf("resolution_mode must be %q or %q, got %q",
			ModeStrict, ModeLenient, cfg.ResolutionMode)
	}

	switch cfg.BalancePolicy {
	case PolicySkip, PolicyAdjust:
	default:
		return fmt.Errorf("balance_policy must be %q or %q, got %q",
			PolicySkip, PolicyAdjust, cfg.BalancePolicy)
	}

	if _, err := decimal.NewFromString(cfg.RoundingTolerance); err != nil {
		return fmt.Errorf("rounding_tolerance %q is not a decimal: %w",
			cfg.RoundingTolerance, err)
	}

	for _, dir := range []string{cfg.ExtractedDir, cfg.ProcessedDir, cfg.OutputDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}
