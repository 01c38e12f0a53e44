package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate rejects configs the engine cannot run with. Soft knobs are
// already defaulted by applyFallbacks; this catches genuinely broken
// source definitions.
func Validate(cfg Config) error {
	var errs []string

	if len(cfg.Sources) == 0 {
		errs = append(errs, "sources must have at least 1 entry")
	}

	seen := map[string]bool{}
	for i, s := range cfg.Sources {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].id is required", i))
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("sources[%d].id %q is duplicated", i, s.ID))
		}
		seen[s.ID] = true

		if s.Endpoint == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].endpoint is required", i))
		} else if u, err := url.Parse(s.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].endpoint %q is not an absolute URL", i, s.Endpoint))
		}
		if s.Origin != "" {
			if u, err := url.Parse(s.Origin); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, fmt.Sprintf("sources[%d].origin %q is not an absolute URL", i, s.Origin))
			}
		}
		if s.QueryParam == "" {
			errs = append(errs, fmt.Sprintf("sources[%d].query_param is required", i))
		}
		if len(s.Cascade.Records) == 0 {
			errs = append(errs, fmt.Sprintf("sources[%d].cascade.records must have at least 1 selector", i))
		}
		if len(s.Cascade.Title) == 0 {
			errs = append(errs, fmt.Sprintf("sources[%d].cascade.title must have at least 1 selector", i))
		}
		if len(s.Cascade.Link) == 0 {
			errs = append(errs, fmt.Sprintf("sources[%d].cascade.link must have at least 1 selector", i))
		}
	}

	if cfg.Scoring.Base < 0 || cfg.Scoring.Base > 1 {
		errs = append(errs, "scoring.base must be in [0,1]")
	}
	if cfg.Scoring.Jitter < 0 {
		errs = append(errs, "scoring.jitter must be >= 0")
	}
	if cfg.Recency.WindowDays <= 0 {
		errs = append(errs, "recency.window_days must be > 0")
	}
	if cfg.Limits.Workers <= 0 {
		errs = append(errs, "limits.workers must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
