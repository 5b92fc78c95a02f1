// Package constants provides shared constants for the fincentiva quote engine.
package constants

// Financial constants
const (
	// TaxRate is the IVA levied on each period's interest portion.
	TaxRate = 0.16

	// DecimalPlaces is the number of decimals currency values are rounded to.
	DecimalPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Solver limits
const (
	// MaxBisectionIterations bounds the fixed-payment search.
	MaxBisectionIterations = 200

	// MaxIRRIterations bounds the Newton-Raphson internal rate of return search.
	MaxIRRIterations = 100

	// IRRTolerance is the step size below which the IRR iteration stops.
	IRRTolerance = 1e-7

	// IRRInitialGuess is the periodic rate the IRR iteration starts from.
	IRRInitialGuess = 0.1

	// PaymentCeilingMultiplier sets the upper bisection bound as a multiple of the principal.
	PaymentCeilingMultiplier = 2.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "FINCENTIVA"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultCacheTTLSeconds is how long computed plans stay cached.
	DefaultCacheTTLSeconds = 300
)
