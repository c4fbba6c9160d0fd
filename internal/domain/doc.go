// Package domain models archived surface-weather observations (METAR)
// exported as CSV by the Iowa Environmental Mesonet ASOS archive.
//
// # Data Source
//
// Each CSV row is one observation from one station: a "station" identifier,
// a "valid" UTC timestamp, a set of numeric measurement columns, up to four
// skycN/skylN sky-condition slot pairs, a "wxcodes" present-weather column,
// and the raw "metar" report string the row was decoded from upstream.
//
// # Encoding Conventions
//
// Missing values:
//
//	"M", "NA", "None", and the empty string (after trimming) all mean the
//	measurement was not reported. Normalization maps them to a null value
//	with an explicit missing state, never to zero.
//
// Trace amounts:
//
//	"T" in precipitation and snow-depth columns means an amount too small
//	to measure. It normalizes to 0.0 with a separate trace flag so callers
//	can tell measured-zero apart from trace.
//
// Numeric columns (all parsed as float64):
//
//	tmpf/dwpf   temperature and dew point, °F
//	relh        relative humidity, percent
//	drct/sknt   wind direction (degrees) and speed (knots)
//	gust        wind gust, knots
//	p01i        one-hour precipitation, inches
//	alti        altimeter setting, inches of mercury
//	mslp        sea-level pressure, hPa
//	vsby        visibility, statute miles
//	snowdepth   snow depth, inches
//
// # METAR Text Parse
//
// The embedded METAR string gets a supplementary best-effort parse: wind
// group, visibility token, altimeter setting, cloud layers, and present-
// weather codes. The tabular columns remain authoritative on any conflict;
// the parse exists for verification and for consumers who want the report
// sub-fields without a full METAR grammar. Full compliance with the
// aviation grammar is out of scope.
//
// # Determinism
//
// Record assembly is a pure function of the input row: re-running it yields
// an identical record. The only time dependence is the document-level
// generation timestamp, drawn from the package clock (see [SetClock]).
package domain
