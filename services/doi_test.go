package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDOI(t *testing.T) {
	cases := []struct {
		name        string
		prefix      string
		shortCode   string
		year        int
		volume      int
		issue       int
		paperNumber int
		want        string
	}{
		{"typical", "10.5555", "IJCS", 2026, 12, 3, 7, "10.5555/ijcs.2026.120307"},
		{"single digits padded", "10.5555", "IJCS", 2026, 1, 1, 1, "10.5555/ijcs.2026.010101"},
		{"two digit fields", "10.1234", "JMLR", 2030, 45, 12, 99, "10.1234/jmlr.2030.451299"},
		{"short code lowercased", "10.5555", "BioMed", 2026, 2, 1, 5, "10.5555/biomed.2026.020105"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatDOI(tc.prefix, tc.shortCode, tc.year, tc.volume, tc.issue, tc.paperNumber)
			assert.Equal(t, tc.want, got)
		})
	}
}
