package engine

import (
	"net/url"
	"path"
	"strings"

	apperrors "webscan/pkg/errors"
)

// Mode selects between passive checks and active payload delivery.
type Mode string

const (
	ModePassive Mode = "passive"
	ModeActive  Mode = "active"
)

// Speed controls backend pacing between checks.
type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedMedium Speed = "medium"
	SpeedFast   Speed = "fast"
)

// Upper bounds for crawl configuration.
const (
	MaxCrawlDepth = 10
	MaxPageLimit  = 1000
)

// RawConfig is the caller-supplied scan request before validation.
type RawConfig struct {
	TargetURL  string   `json:"target_url"`
	Depth      int      `json:"depth"`
	MaxPages   int      `json:"max_pages"`
	Exclusions []string `json:"exclusions,omitempty"`
	Mode       string   `json:"mode"`
	Speed      string   `json:"speed"`
}

// ScanConfig is a validated, normalized scan configuration. Immutable once
// a scan starts.
type ScanConfig struct {
	TargetURL  string   `json:"target_url"`
	Depth      int      `json:"depth"`
	MaxPages   int      `json:"max_pages"`
	Exclusions []string `json:"exclusions,omitempty"`
	Mode       Mode     `json:"mode"`
	Speed      Speed    `json:"speed"`
}

// Validate normalizes and validates a raw scan request. Pure function of
// its input; no session exists until it passes.
func Validate(raw RawConfig) (ScanConfig, error) {
	u, err := url.Parse(strings.TrimSpace(raw.TargetURL))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ScanConfig{}, apperrors.NewValidationError("target_url", raw.TargetURL, apperrors.InvalidTarget)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ScanConfig{}, apperrors.NewValidationError("target_url", raw.TargetURL, apperrors.InvalidTarget)
	}

	if raw.Depth < 0 || raw.Depth > MaxCrawlDepth {
		return ScanConfig{}, apperrors.NewValidationError("depth", raw.Depth, apperrors.InvalidBound)
	}
	if raw.MaxPages < 1 || raw.MaxPages > MaxPageLimit {
		return ScanConfig{}, apperrors.NewValidationError("max_pages", raw.MaxPages, apperrors.InvalidBound)
	}

	mode := Mode(raw.Mode)
	if mode != ModePassive && mode != ModeActive {
		return ScanConfig{}, apperrors.NewValidationError("mode", raw.Mode, apperrors.InvalidOption)
	}

	speed := Speed(raw.Speed)
	if speed != SpeedSlow && speed != SpeedMedium && speed != SpeedFast {
		return ScanConfig{}, apperrors.NewValidationError("speed", raw.Speed, apperrors.InvalidOption)
	}

	return ScanConfig{
		TargetURL:  u.String(),
		Depth:      raw.Depth,
		MaxPages:   raw.MaxPages,
		Exclusions: normalizeExclusions(raw.Exclusions),
		Mode:       mode,
		Speed:      speed,
	}, nil
}

// normalizeExclusions trims and deduplicates exclusion patterns. Malformed
// patterns are dropped rather than failing the whole request.
func normalizeExclusions(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := path.Match(p, "probe"); err != nil {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
