package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RawRow is one CSV row keyed by column name. It is the source of truth;
// assembly never mutates it. An absent key means the column was not present
// in that row.
type RawRow map[string]string

// Record is one assembled output row. Keys are deterministic for a given
// input schema; values are raw strings, parsed numerics, or nested
// structures. Records are built once and never mutated afterwards.
type Record map[string]any

// CloudGroup is one sky-condition layer slot, kept raw. Either half may be
// missing; a group is emitted only when at least one half is present.
type CloudGroup struct {
	TypeRaw   any `json:"type_raw"`
	HeightRaw any `json:"height_raw"`
}

// NumericSpec maps a source CSV column to its output name and parser kind.
type NumericSpec struct {
	Column string
	Name   string
	Kind   NumericKind
}

// NumericSchema is the fixed set of numeric columns tracked in IEM/ASOS
// METAR CSV exports. Process-wide constant; not user-configurable.
var NumericSchema = []NumericSpec{
	{Column: "tmpf", Name: "tmpf_F", Kind: KindFloat},
	{Column: "dwpf", Name: "dwpf_F", Kind: KindFloat},
	{Column: "relh", Name: "relh_pct", Kind: KindFloat},
	{Column: "drct", Name: "wind_dir_deg", Kind: KindFloat},
	{Column: "sknt", Name: "wind_spd_kt", Kind: KindFloat},
	{Column: "p01i", Name: "precip_1hr_in", Kind: KindFloat},
	{Column: "alti", Name: "altim_inHg", Kind: KindFloat},
	{Column: "mslp", Name: "mslp_hPa", Kind: KindFloat},
	{Column: "vsby", Name: "visibility_sm", Kind: KindFloat},
	{Column: "gust", Name: "gust_kt", Kind: KindFloat},
	{Column: "snowdepth", Name: "snowdepth_in", Kind: KindFloat},
}

// CloudSlotCount is the number of skycN/skylN column pairs in the export.
const CloudSlotCount = 4

// wxTokenRe splits a wxcodes column value into word-like tokens, each
// optionally sign-prefixed, e.g. "-RA BR" → ["-RA", "BR"].
var wxTokenRe = regexp.MustCompile(`[+-]?\w+`)

// validLayouts are the timestamp shapes seen in IEM exports, most specific
// first. The archive convention is "2006-01-02 15:04" in UTC.
var validLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// AssembleRecord maps one tabular row into one output record: the station
// and timestamp, a normalized triplet per schema numeric column present in
// the row, structured cloud groups, tokenized weather codes, the raw METAR
// string with its supplementary parse, and a raw passthrough of every other
// column so no input field is silently dropped.
func AssembleRecord(row RawRow, columns []string) Record {
	rec := Record{}

	rec["station"] = stringOrNil(row, "station")

	rawValid := row["valid"]
	rec["valid_raw"] = stringOrNil(row, "valid")
	rec["valid"] = parseValidTime(rawValid)

	for _, spec := range NumericSchema {
		raw, ok := row[spec.Column]
		if !ok {
			// Column absent from this export: emit nothing for it.
			continue
		}
		field := Normalize(raw, spec.Kind)
		rec[spec.Name+"_raw"] = raw
		rec[spec.Name+"_v"] = field.ValueOrNil()
		rec[spec.Name+"_is_trace"] = field.IsTrace()
	}

	if groups := assembleCloudGroups(row); len(groups) > 0 {
		rec["cloud_groups_raw"] = groups
	}

	wxc, wxcOK := row["wxcodes"]
	rec["wxcodes_raw"] = stringOrNil(row, "wxcodes")
	if wxcOK && !IsMissing(wxc) {
		rec["wxcodes_tokens"] = wxTokenRe.FindAllString(wxc, -1)
	}

	metar := row["metar"]
	rec["metar_raw"] = stringOrNil(row, "metar")
	rec["metar_parsed"] = ExtractReport(metar)

	// Raw passthrough for any column whose name is not itself a record key.
	// Note this intentionally duplicates schema columns under their source
	// names (e.g. tmpf → tmpf_raw alongside tmpf_F_raw), matching the
	// established output contract.
	for _, col := range columns {
		if _, taken := rec[col]; taken {
			continue
		}
		rec[col+"_raw"] = stringOrNil(row, col)
	}

	return rec
}

// assembleCloudGroups collects the skycN/skylN slot pairs, keeping a slot
// only when at least one half is non-missing. Raw values are preserved
// verbatim, sentinels included.
func assembleCloudGroups(row RawRow) []CloudGroup {
	var groups []CloudGroup
	for i := 1; i <= CloudSlotCount; i++ {
		n := strconv.Itoa(i)
		ctype, typeOK := row["skyc"+n]
		cheight, heightOK := row["skyl"+n]
		typeMissing := !typeOK || IsMissing(ctype)
		heightMissing := !heightOK || IsMissing(cheight)
		if typeMissing && heightMissing {
			continue
		}
		g := CloudGroup{}
		if typeOK {
			g.TypeRaw = ctype
		}
		if heightOK {
			g.HeightRaw = cheight
		}
		groups = append(groups, g)
	}
	return groups
}

// parseValidTime parses the observation timestamp. Missing or unparseable
// values degrade to nil; a bad timestamp never aborts the row.
func parseValidTime(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "M" {
		return nil
	}
	for _, layout := range validLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC()
		}
	}
	return nil
}

// stringOrNil returns the column value, or nil when the column is absent,
// so JSON output distinguishes "no such column" from an empty string.
func stringOrNil(row RawRow, col string) any {
	if v, ok := row[col]; ok {
		return v
	}
	return nil
}
