package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = "KAMW 251753Z 21015G25KT 10SM -RA BR OVC010 19/17 A2992 RMK AO2"

func TestExtractReport_MissingText(t *testing.T) {
	for _, text := range []string{"", "   ", "M", "NA", "None"} {
		t.Run("text="+text, func(t *testing.T) {
			assert.Empty(t, ExtractReport(text))
		})
	}
}

func TestExtractReport_Wind(t *testing.T) {
	tests := []struct {
		name string
		text string
		dir  string
		spd  int
		gust any
	}{
		{"gusting wind", "21015G25KT", "210", 15, 25},
		{"steady wind", "36004KT", "360", 4, nil},
		{"variable wind", "VRB03KT", "VRB", 3, nil},
		{"three digit speed", "270110G130KT", "270", 110, 130},
		{"calm", "00000KT", "000", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ExtractReport(tt.text)

			assert.Equal(t, tt.dir, parsed["wind_dir"])
			assert.Equal(t, tt.spd, parsed["wind_spd_kt"])
			gust, present := parsed["wind_gust_kt"]
			assert.True(t, present, "gust key present whenever wind matches")
			assert.Equal(t, tt.gust, gust)
		})
	}

	t.Run("no wind group", func(t *testing.T) {
		parsed := ExtractReport("KAMW 251753Z 10SM OVC010")

		assert.NotContains(t, parsed, "wind_dir")
		assert.NotContains(t, parsed, "wind_spd_kt")
		assert.NotContains(t, parsed, "wind_gust_kt")
	})
}

func TestExtractReport_Visibility(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"whole miles", "10SM", "10SM"},
		// The pattern picks up the fractional part of a mixed expression;
		// the whole-mile prefix is not part of the match.
		{"mixed fraction", "1 1/2SM", "1/2SM"},
		{"quarter mile", "1/4", "1/4"},
		{"less than quarter", "M1/4", "M1/4"},
		{"less than half", "M1/2", "M1/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ExtractReport(tt.text)
			assert.Equal(t, tt.expected, parsed["visibility_raw"])
		})
	}
}

func TestExtractReport_Altimeter(t *testing.T) {
	parsed := ExtractReport("A2992")
	// Stored undivided; 2992 means 29.92 inHg.
	assert.Equal(t, "2992", parsed["altimeter_A"])

	parsed = ExtractReport("Q1013")
	assert.NotContains(t, parsed, "altimeter_A")
}

func TestExtractReport_Clouds(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"single layer", "OVC010", []string{"OVC010"}},
		{"ordered layers", "OVC010 BKN025CB", []string{"OVC010", "BKN025CB"}},
		{"towering cumulus", "SCT040TCU", []string{"SCT040TCU"}},
		{"vertical visibility", "VV002", []string{"VV002"}},
		{"cover without height", "FEW", []string{"FEW"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ExtractReport(tt.text)
			assert.Equal(t, tt.expected, parsed["clouds"])
		})
	}

	t.Run("no layers", func(t *testing.T) {
		parsed := ExtractReport("KAMW 251753Z 10SM")
		assert.NotContains(t, parsed, "clouds")
	})
}

func TestExtractReport_WxCodes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"light rain and mist", "KAMW 251753Z -RA BR OVC010", []string{"RA", "BR"}},
		{"heavy snow", "KAMW 251753Z +SN", []string{"SN"}},
		{"code at end of string", "KAMW 251753Z 10SM -RA", []string{"RA"}},
		{"thunderstorm", "KAMW 251753Z TS GR", []string{"TS", "GR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ExtractReport(tt.text)
			assert.Equal(t, tt.expected, parsed["wx_codes"])
		})
	}

	t.Run("no codes", func(t *testing.T) {
		parsed := ExtractReport("KAMW 251753Z 10SM OVC010")
		assert.NotContains(t, parsed, "wx_codes")
	})
}

func TestExtractReport_FullReport(t *testing.T) {
	parsed := ExtractReport(sampleReport)

	require.NotEmpty(t, parsed)
	assert.Equal(t, "210", parsed["wind_dir"])
	assert.Equal(t, 15, parsed["wind_spd_kt"])
	assert.Equal(t, 25, parsed["wind_gust_kt"])
	assert.Equal(t, "10SM", parsed["visibility_raw"])
	assert.Equal(t, "2992", parsed["altimeter_A"])
	assert.Equal(t, []string{"OVC010"}, parsed["clouds"])
	assert.Equal(t, []string{"RA", "BR"}, parsed["wx_codes"])
}
