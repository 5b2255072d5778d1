// Package constants provides shared constants for the dev-underwriter application.
package constants

import "time"

// Deal model constants
const (
	// LoanToCost is the fixed share of total project cost funded by debt.
	LoanToCost = 0.85

	// DayCountBasis is the simple-interest day-count convention used for carry.
	DayCountBasis = 360.0

	// DaysPerUtilityMonth is the billing period used to round utility carry up.
	DaysPerUtilityMonth = 30

	// MonthlyUtilityCharge is the flat utility carry per (rounded-up) month.
	MonthlyUtilityCharge = 350.0

	// MinMarginFloor is the margin floor used for the minimum acceptable asking price.
	MinMarginFloor = 0.05

	// DelayDays is the holding-period extension applied by the delay scenarios.
	DelayDays = 30
)

// BidDateLayout is the date format of contractor bids in config files and output.
const BidDateLayout = "2006-01-02"

// Margin and land-ratio thresholds
const (
	// ProceedMargin is the lowest net profit margin recommended as PROCEED.
	ProceedMargin = 0.07

	// CautionMargin is the lowest net profit margin recommended as PROCEED WITH CAUTION.
	CautionMargin = 0.05

	// StrongMargin is exceeded (strictly) by a STRONG margin.
	StrongMargin = 0.10

	// StrongLandRatio is the exclusive upper bound for a STRONG land-cost ratio.
	StrongLandRatio = 0.20

	// AcceptableLandRatio is the inclusive upper bound for an ACCEPTABLE land-cost ratio.
	AcceptableLandRatio = 0.25

	// CautionLandRatio is the inclusive upper bound for a CAUTION land-cost ratio.
	CautionLandRatio = 0.30
)

// S-curve constants
const (
	// DefaultSCurveLevel is the steepness level used for unrecognized rate names.
	DefaultSCurveLevel = 5

	// SteepnessPerLevel converts a 1-9 level into the logistic steepness factor.
	SteepnessPerLevel = 0.4
)

// BTR project defaults
const (
	// DefaultConstructionMonths is the project horizon when none is configured.
	DefaultConstructionMonths = 24

	// MaxProjectMonths bounds every month count accepted from callers.
	MaxProjectMonths = 600

	// DefaultAvgSFPerUnit is used to derive residential SF when none is configured.
	DefaultAvgSFPerUnit = 1400.0

	// DefaultBuildDuration is the number of months from unit start to delivery.
	DefaultBuildDuration = 5

	// DefaultUnitPace is the number of unit starts per month for an even pace.
	DefaultUnitPace = 10

	// DefaultFirstStartMonth is the 1-based month of the first unit starts.
	DefaultFirstStartMonth = 3

	// ConstructionAvgOutstanding approximates the average drawn balance of an
	// S-curve funded construction loan.
	ConstructionAvgOutstanding = 0.55

	// DaysPerLoanMonth converts loan terms in months into interest days.
	DaysPerLoanMonth = 30

	// DefaultLoanTermMonths is used for construction loans without a term.
	DefaultLoanTermMonths = 36
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
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
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultServerTimeout bounds reading a request and writing its response
	DefaultServerTimeout = 10 * time.Second
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// FractionTolerance is the tolerance for sums of normalized fractions.
	FractionTolerance = 1e-9

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
