// Package domain models National Weather Service (NWS) storm event impact data.
//
// # Data Source
//
// Events come from the NOAA National Climatic Data Center storm events
// database (the "Storm Data" publication), distributed as a single
// bzip2-compressed CSV covering 1950 onwards. The noaa adapter downloads and
// caches the file; this package only sees parsed rows.
//
// # Impact Columns
//
// The analysis consumes seven of the dataset's 37 columns:
//
//	EVTYPE      free-text event category, e.g. "TORNADO", "FLASH FLOOD"
//	FATALITIES  direct fatality count
//	INJURIES    direct injury count
//	PROPDMG     property damage mantissa
//	PROPDMGEXP  property damage magnitude code
//	CROPDMG     crop damage mantissa
//	CROPDMGEXP  crop damage magnitude code
//
// # Magnitude Codes
//
// Damage costs are split across a numeric mantissa and a single-letter
// magnitude code: "K" for thousands, "M" for millions, "B" for billions of
// dollars, so PROPDMG=25 with PROPDMGEXP="M" means $25,000,000. Codes appear
// in both cases in the raw data and are upper-cased before lookup.
//
// Decades of hand entry left junk in the code columns: digits, "+", "?",
// "H"/"h" and blanks all occur. The resolution policy here is fixed and
// explicit rather than inherited from whatever a map miss would produce:
//
//   - blank code: multiplier 1, the mantissa is taken as plain dollars
//   - any code outside the documented K/M/B set: multiplier 0, the
//     contribution is dropped from the sums
//
// Both entries live in [DefaultMultipliers]; callers pass the table in, so
// tests and alternative policies never touch package state.
//
// # Event Type Labels
//
// EVTYPE is notoriously dirty: the same physical phenomenon appears under
// multiple spellings and casings ("TSTM WIND", "Tstm Wind", "THUNDERSTORM
// WIND"). Grouping is an exact string match on the raw label. That fragments
// some categories, but it is a data-quality problem in the source, not
// something this package silently repairs; consumers see exactly the labels
// NOAA recorded.
package domain
