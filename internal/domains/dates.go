package domains

import (
	"github.com/plexatic/storeconnect/internal/errs"
	"github.com/plexatic/storeconnect/internal/filter"
)

// DateWindowStages builds the created-date window shared by the search
// tools: created_since_days (inclusive, relative to now) plus
// created_after / created_before (exclusive instants).
func DateWindowStages(field string, args map[string]any) ([]filter.Stage, error) {
	var stages []filter.Stage

	if days := IntArg(args, "created_since_days", 0); days > 0 {
		stages = append(stages, filter.Since(field, days))
	}
	if raw := StringArg(args, "created_after", ""); raw != "" {
		t, ok := filter.ParseTime(raw)
		if !ok {
			return nil, errs.New(errs.KindConfiguration,
				"created_after must be an ISO 8601 timestamp, got %q", raw)
		}
		stages = append(stages, filter.After(field, t))
	}
	if raw := StringArg(args, "created_before", ""); raw != "" {
		t, ok := filter.ParseTime(raw)
		if !ok {
			return nil, errs.New(errs.KindConfiguration,
				"created_before must be an ISO 8601 timestamp, got %q", raw)
		}
		stages = append(stages, filter.Before(field, t))
	}
	return stages, nil
}
