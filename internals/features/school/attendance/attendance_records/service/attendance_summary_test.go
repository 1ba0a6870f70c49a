package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	cases := []struct {
		name                          string
		present, late, excused, total int64
		want                          float64
	}{
		{"all present", 10, 0, 0, 10, 100},
		{"late counts as attended", 6, 2, 0, 10, 80},
		{"excused leaves the denominator", 6, 0, 2, 10, 75},
		{"rounded to two decimals", 1, 0, 0, 3, 33.33},
		{"only excused", 0, 0, 4, 4, 0},
		{"no records", 0, 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Rate(tc.present, tc.late, tc.excused, tc.total))
		})
	}
}
