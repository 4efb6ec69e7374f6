package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartYear(t *testing.T) {
	for month := 1; month <= 8; month++ {
		assert.Equal(t, 2020, StartYear(month, 2021),
			"month %d belongs to the period that started the previous September", month)
	}
	for month := 9; month <= 12; month++ {
		assert.Equal(t, 2021, StartYear(month, 2021),
			"month %d opens a new period in its own calendar year", month)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name  string
		month int
		year  int
		want  string
	}{
		{
			name:  "october starts the period",
			month: 10,
			year:  2020,
			want:  "2020-2021",
		},
		{
			name:  "march falls in the prior period",
			month: 3,
			year:  2021,
			want:  "2020-2021",
		},
		{
			name:  "september first month of period",
			month: 9,
			year:  2016,
			want:  "2016-2017",
		},
		{
			name:  "august last month of period",
			month: 8,
			year:  2017,
			want:  "2016-2017",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.month, tt.year))
		})
	}
}

func TestIncluded(t *testing.T) {
	assert.False(t, Included(2015), "periods before 2016-2017 are dropped")
	assert.True(t, Included(2016))
	assert.True(t, Included(2023))
}

func TestFiscalDayOfYear(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		day     int
		want    int
		wantErr bool
	}{
		{
			name:  "september first is day one",
			month: 9,
			day:   1,
			want:  1,
		},
		{
			name:  "august 31 is day 365",
			month: 8,
			day:   31,
			want:  365,
		},
		{
			name:  "october 5",
			month: 10,
			day:   5,
			want:  35,
		},
		{
			name:  "december 31",
			month: 12,
			day:   31,
			want:  122,
		},
		{
			name:  "january first wraps",
			month: 1,
			day:   1,
			want:  123,
		},
		{
			name:  "february 28",
			month: 2,
			day:   28,
			want:  181,
		},
		{
			name:  "february 29 maps to the february 28 ordinal",
			month: 2,
			day:   29,
			want:  181,
		},
		{
			name:  "march first",
			month: 3,
			day:   1,
			want:  182,
		},
		{
			name:    "month zero",
			month:   0,
			day:     1,
			wantErr: true,
		},
		{
			name:    "month thirteen",
			month:   13,
			day:     1,
			wantErr: true,
		},
		{
			name:    "day zero",
			month:   6,
			day:     0,
			wantErr: true,
		},
		{
			name:    "february 30 does not exist",
			month:   2,
			day:     30,
			wantErr: true,
		},
		{
			name:    "april 31 does not exist",
			month:   4,
			day:     31,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FiscalDayOfYear(tt.month, tt.day)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFiscalDayOfYear_CoversReferenceYear(t *testing.T) {
	// Every day of the non-leap reference year maps to a distinct fiscal
	// ordinal in [1, 365].
	seen := make(map[int]bool)
	for month := 1; month <= 12; month++ {
		for day := 1; day <= daysInMonth[month-1]; day++ {
			fiscal, err := FiscalDayOfYear(month, day)
			require.NoError(t, err, "month %d day %d", month, day)
			require.GreaterOrEqual(t, fiscal, 1)
			require.LessOrEqual(t, fiscal, 365)
			require.False(t, seen[fiscal], "fiscal day %d produced twice", fiscal)
			seen[fiscal] = true
		}
	}
	assert.Len(t, seen, 365)
}
