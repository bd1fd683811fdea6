package config

import (
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/upright/internal/timeutil"
)

// FilterConfig restricts stored records to a time range and, optionally, a
// set of foreground contexts.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
	Contexts  []string
}

// FilterOptions holds the raw filter flags.
type FilterOptions struct {
	Period  string
	Start   string
	End     string
	Context string
}

func newFilter(opts FilterOptions, now time.Time) (*FilterConfig, error) {
	filterCfg := &FilterConfig{}

	for _, c := range strings.Split(opts.Context, ",") {
		if c = strings.TrimSpace(c); c != "" {
			filterCfg.Contexts = append(filterCfg.Contexts, c)
		}
	}

	period := timeutil.Period(strings.TrimSpace(opts.Period))

	if period != "" && !slices.Contains(timeutil.PeriodCollection, period) {
		return nil, errInvalidPeriod
	}

	if period != "" {
		filterCfg.StartTime, filterCfg.EndTime = timeutil.PeriodRange(period, now)

		return filterCfg, nil
	}

	// Without a period or start date, default to today
	if opts.Start == "" && opts.End == "" {
		filterCfg.StartTime, filterCfg.EndTime = timeutil.PeriodRange(
			timeutil.PeriodToday,
			now,
		)

		return filterCfg, nil
	}

	if opts.Start != "" {
		dateTime, err := timeutil.FromStr(opts.Start, now)
		if err != nil {
			return nil, errInvalidDate.Fmt("start").Wrap(err)
		}

		filterCfg.StartTime = dateTime
	}

	if now.After(filterCfg.StartTime) {
		filterCfg.EndTime = now
	} else {
		filterCfg.EndTime = timeutil.RoundToEnd(filterCfg.StartTime)
	}

	if opts.End != "" {
		dateTime, err := timeutil.FromStr(opts.End, now)
		if err != nil {
			return nil, errInvalidDate.Fmt("end").Wrap(err)
		}

		filterCfg.EndTime = dateTime
	}

	if filterCfg.EndTime.Before(filterCfg.StartTime) {
		return nil, errInvalidDateRange
	}

	return filterCfg, nil
}

// Filter builds a filter configuration from the period, start, end and
// context flags.
func Filter(ctx *cli.Context) (*FilterConfig, error) {
	return newFilter(FilterOptions{
		Period:  ctx.String("period"),
		Start:   ctx.String("start"),
		End:     ctx.String("end"),
		Context: ctx.String("context"),
	}, time.Now())
}
