package monitoring

import (
	"errors"
	"fmt"
	"time"
)

// Window is a closed read interval for published KPIs.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowOptions describes a window either as a trailing duration ending at
// Now or as explicit RFC 3339 bounds. Last wins when both are given.
type WindowOptions struct {
	Start string
	End   string
	Last  string
	Now   time.Time
}

func ParseWindow(opts WindowOptions) (Window, error) {
	if opts.Last != "" {
		last, err := time.ParseDuration(opts.Last)
		if err != nil {
			return Window{}, fmt.Errorf("invalid --last: %w", err)
		}
		if last <= 0 {
			return Window{}, errors.New("--last must be positive")
		}
		return Window{Start: opts.Now.Add(-last), End: opts.Now}, nil
	}
	if opts.Start == "" || opts.End == "" {
		return Window{}, errors.New("--start and --end are required unless --last is set")
	}
	var w Window
	for _, bound := range []struct {
		flag  string
		value string
		dst   *time.Time
	}{
		{"--start", opts.Start, &w.Start},
		{"--end", opts.End, &w.End},
	} {
		t, err := time.Parse(time.RFC3339, bound.value)
		if err != nil {
			return Window{}, fmt.Errorf("invalid %s: %w", bound.flag, err)
		}
		*bound.dst = t.UTC()
	}
	if !w.End.After(w.Start) {
		return Window{}, errors.New("--end must be after --start")
	}
	return w, nil
}
