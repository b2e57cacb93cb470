package view

import (
	"time"

	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

// Period is a preset for the collected column of the pipeline board.
type Period int

const (
	PeriodAll       Period = 0
	PeriodToday     Period = 1
	PeriodThisMonth Period = 2
	PeriodLastMonth Period = 3
	PeriodCustom    Period = 4
)

func (p Period) String() string {
	switch p {
	case PeriodAll:
		return "All Time"
	case PeriodToday:
		return "Today"
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodCustom:
		return "Custom"
	}

	return "Unknown"
}

// PeriodFilter turns a preset into a board filter relative to now. Custom
// returns the zero filter; the caller fills it from user input.
func PeriodFilter(p Period, now time.Time) pipeline.Filter {
	switch p {
	case PeriodToday:
		return pipeline.Filter{Day: now.Format(time.DateOnly)}
	case PeriodThisMonth:
		return pipeline.Filter{Month: now.Format("2006-01")}
	case PeriodLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return pipeline.Filter{Month: first.AddDate(0, -1, 0).Format("2006-01")}
	}

	return pipeline.Filter{}
}
