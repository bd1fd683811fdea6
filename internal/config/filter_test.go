package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayoisaiah/upright/internal/timeutil"
)

var filterNow = time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

type FilterTest struct {
	Name     string
	Opts     FilterOptions
	Expected *FilterConfig
	Err      error
}

var filterTestCases = []FilterTest{
	{
		Name: "Provide a valid period",
		Opts: FilterOptions{Period: "7days"},
		Expected: &FilterConfig{
			StartTime: time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC),
		},
	},
	{
		Name: "Yesterday covers the previous day only",
		Opts: FilterOptions{Period: "yesterday"},
		Expected: &FilterConfig{
			StartTime: time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 5, 9, 23, 59, 59, 0, time.UTC),
		},
	},
	{
		Name: "All time has no lower bound",
		Opts: FilterOptions{Period: string(timeutil.PeriodAllTime)},
		Expected: &FilterConfig{
			EndTime: time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC),
		},
	},
	{
		Name: "Default to today and split contexts",
		Opts: FilterOptions{Context: "editor, game,,"},
		Expected: &FilterConfig{
			StartTime: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC),
			Contexts:  []string{"editor", "game"},
		},
	},
	{
		Name: "Reject an unknown period",
		Opts: FilterOptions{Period: "fortnight"},
		Err:  errInvalidPeriod,
	},
	{
		Name: "Reject an unparsable start date",
		Opts: FilterOptions{Start: "not a date at all"},
		Err:  errInvalidDate.Fmt("start"),
	},
	{
		Name: "Reject an end date before the start date",
		Opts: FilterOptions{Start: "2024-05-02", End: "2024-05-01"},
		Err:  errInvalidDateRange,
	},
}

func TestFilter(t *testing.T) {
	for _, tc := range filterTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			cfg, err := newFilter(tc.Opts, filterNow)
			if tc.Err != nil {
				if !errors.Is(err, tc.Err) {
					t.Fatalf("expected error %v, got %v", tc.Err, err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tc.Expected, cfg); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterStartDate(t *testing.T) {
	cfg, err := newFilter(FilterOptions{Start: "2024-05-01"}, filterNow)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.StartTime.Year() != 2024 || cfg.StartTime.Month() != time.May ||
		cfg.StartTime.Day() != 1 {
		t.Fatalf("expected start on 2024-05-01, got %v", cfg.StartTime)
	}

	if !cfg.EndTime.Equal(filterNow) {
		t.Fatalf("expected the range to end now, got %v", cfg.EndTime)
	}
}
