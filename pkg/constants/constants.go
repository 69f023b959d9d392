// Package constants provides shared constants for the loan-affordability application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Affordability policy defaults
const (
	// DefaultInsuranceRate is the annual borrower insurance rate as a fraction of principal.
	DefaultInsuranceRate = 0.004

	// DefaultDebtToIncomeCeiling is the share of monthly income that may go to loan payments.
	DefaultDebtToIncomeCeiling = 0.33

	// UndefinedRatio is the debt-to-income ratio reported when income is zero or negative.
	// It is on the same fraction scale as every other ratio, so 1.0 reads as 100%.
	UndefinedRatio = 1.0

	// DefaultSearchPrecision is the width (in monetary units) at which the
	// maximum-principal search stops.
	DefaultSearchPrecision = 1.0

	// DefaultMaxIterations caps the maximum-principal search.
	DefaultMaxIterations = 64

	// LegacySearchUpperBound is the fixed search ceiling historically used by the
	// simulator. A zero SearchUpperBound derives the ceiling from the inputs instead.
	LegacySearchUpperBound = 1_000_000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variables that override scenario file keys
	EnvPrefix = "LOAN_AFFORDABILITY"
)

// Validation warning thresholds
const (
	// HighInterestRatePercent flags annual rates no fixed-rate loan plausibly carries
	HighInterestRatePercent = 25.0

	// FractionLikeRatePercent flags positive rates small enough to have been written as fractions (0.04 for 4%)
	FractionLikeRatePercent = 0.5

	// LongTermYears flags unusually long loan terms
	LongTermYears = 40
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML scenario files (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultMaxBodyBytes caps JSON request bodies (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024
)
