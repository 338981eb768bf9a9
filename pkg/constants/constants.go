// Package constants provides shared constants for the career-forecast application.
package constants

// Projection timeline constants
const (
	// TotalYears is the full projection horizon: study plus work years
	TotalYears = 12

	// DefaultStudyYears is the default program duration in years
	DefaultStudyYears = 2

	// WorkYears is the number of post-graduation employment years
	WorkYears = TotalYears - DefaultStudyYears

	// DefaultFamilyYear is the employment year when the household switches
	// from single to family costs
	DefaultFamilyYear = 5

	// FamilyYearNever marks a household that stays single for the whole horizon
	FamilyYearNever = 13
)

// Baseline scenario defaults (status quo: keep the current job at home)
const (
	// DefaultBaselineSalaryK is the baseline annual salary in $K USD
	DefaultBaselineSalaryK = 9.5

	// DefaultBaselineGrowth is the annual salary growth rate on the baseline path
	DefaultBaselineGrowth = 0.08

	// DefaultHomeCountry is the baseline work country
	DefaultHomeCountry = "Pakistan"
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// ThousandsPerUnit converts $K figures to full dollars
	ThousandsPerUnit = 1000.0

	// UnboundedThresholdLC is the stored sentinel for an unbounded top
	// tax bracket threshold, in local currency
	UnboundedThresholdLC = 999999999999.0
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

	// DefaultDatabaseFile is the default sqlite database file name
	DefaultDatabaseFile = "career_tree.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"
)
