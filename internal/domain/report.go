package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedReport is the sparse result of the best-effort METAR text parse.
// A key is present only when its pattern matched; an absent key means
// "pattern did not match", never "value is zero".
type ParsedReport map[string]any

var (
	// windRe matches a surface wind group: three-digit direction or VRB,
	// two-or-three-digit speed, optional gust, terminated by KT.
	// e.g. "21015G25KT" → dir 210, speed 15, gust 25.
	windRe = regexp.MustCompile(`(\d{3}|VRB)(\d{2,3})(G(\d{2,3}))?KT`)

	// visRe matches a statute-mile visibility token, including fractional
	// forms and the "less than" M prefix: "10SM", "1 1/2SM", "M1/4".
	visRe = regexp.MustCompile(`(\d{1,2}(?: ?/?\d)?SM|M?1/4|M1/2)`)

	// altimeterRe matches an altimeter setting in hundredths of inches of
	// mercury: "A3004" → 30.04 inHg. The four digits are kept undivided.
	altimeterRe = regexp.MustCompile(`A(\d{4})`)

	// cloudRe matches one sky-condition group: a cover abbreviation with
	// an optional three-digit height (hundreds of feet) and CB/TCU suffix.
	cloudRe = regexp.MustCompile(`\b(FEW|SCT|BKN|OVC|VV)(\d{3}|\d{3}CB|\d{3}TCU)?\b`)

	// wxCodeRe matches a present-weather group: optional intensity prefix
	// and a two-letter phenomenon code from the WMO 4678 subset the IEM
	// archive reports.
	wxCodeRe = regexp.MustCompile(` (-|\+)?(DZ|RA|SN|SG|IC|PL|GR|GS|BR|FG|TS|SH|VA|HZ|BL|DR|SQ|FS|SS|DS)\b`)
)

// reportMatcher contributes zero or more keys to a ParsedReport.
// Matchers are independent; each owns a disjoint set of output keys.
type reportMatcher func(text string, out ParsedReport)

// reportMatchers is the fixed extraction battery, applied in order.
// Adding a phenomenon category means appending a matcher here.
var reportMatchers = []reportMatcher{
	matchWind,
	matchVisibility,
	matchAltimeter,
	matchClouds,
	matchWxCodes,
}

// ExtractReport scans a raw METAR string and returns whichever tokens the
// pattern battery recognized. The result is supplementary: the tabular CSV
// fields stay authoritative on conflict. Missing text (per the same sentinel
// convention as numeric fields) yields an empty map, never an error.
func ExtractReport(text string) ParsedReport {
	out := ParsedReport{}
	if IsMissing(text) {
		return out
	}

	s := strings.TrimSpace(text)
	for _, match := range reportMatchers {
		match(s, out)
	}
	return out
}

func matchWind(text string, out ParsedReport) {
	m := windRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	out["wind_dir"] = m[1]
	out["wind_spd_kt"] = mustAtoi(m[2])
	if m[4] != "" {
		out["wind_gust_kt"] = mustAtoi(m[4])
	} else {
		// Key stays present with a null value so consumers can tell
		// "wind matched, no gust" from "no wind group at all".
		out["wind_gust_kt"] = nil
	}
}

func matchVisibility(text string, out ParsedReport) {
	if m := visRe.FindStringSubmatch(text); m != nil {
		// Raw token only; visibility is not decomposed numerically.
		out["visibility_raw"] = m[1]
	}
}

func matchAltimeter(text string, out ParsedReport) {
	if m := altimeterRe.FindStringSubmatch(text); m != nil {
		out["altimeter_A"] = m[1]
	}
}

func matchClouds(text string, out ParsedReport) {
	ms := cloudRe.FindAllStringSubmatch(text, -1)
	if ms == nil {
		return
	}
	clouds := make([]string, 0, len(ms))
	for _, m := range ms {
		clouds = append(clouds, m[1]+m[2])
	}
	out["clouds"] = clouds
}

func matchWxCodes(text string, out ParsedReport) {
	// The trailing space is part of the scan extent so a phenomenon code
	// at the very end of the report still matches.
	ms := wxCodeRe.FindAllStringSubmatch(text+" ", -1)
	if ms == nil {
		return
	}
	codes := make([]string, 0, len(ms))
	for _, m := range ms {
		codes = append(codes, m[2])
	}
	out["wx_codes"] = codes
}

// mustAtoi converts digits already constrained by a regexp group.
func mustAtoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
