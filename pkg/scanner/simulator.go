package scanner

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"webscan/pkg/engine"
	"webscan/pkg/logger"
)

// pacing between checks per scan speed.
var paceFor = map[engine.Speed]time.Duration{
	engine.SpeedSlow:   400 * time.Millisecond,
	engine.SpeedMedium: 100 * time.Millisecond,
	engine.SpeedFast:   10 * time.Millisecond,
}

// Simulator walks a check profile against the configured target, emitting
// one raw finding per applicable check. Exclusion patterns are matched
// against each check's path, crawl depth and page limits bound the run,
// and pacing follows the configured scan speed.
type Simulator struct {
	mu      sync.RWMutex
	profile Profile
	logger  *logger.Logger
}

type SimOptFunc func(*Simulator)

func WithProfile(p Profile) SimOptFunc {
	return func(s *Simulator) {
		s.profile = p
	}
}

func WithSimLogger(l *logger.Logger) SimOptFunc {
	return func(s *Simulator) {
		s.logger = l
	}
}

func NewSimulator(opts ...SimOptFunc) *Simulator {
	s := &Simulator{
		profile: DefaultProfile(),
		logger:  logger.NewLogger(logrus.InfoLevel),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload swaps the active profile. Safe to call while scans are running;
// in-flight runs keep the profile they started with.
func (s *Simulator) Reload(p Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()

	s.logger.Info("Check profile reloaded", logger.Fields{"checks": len(p.Checks)})
}

// Run implements engine.Backend. OnDone is called exactly once; findings
// stop promptly when ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, cfg engine.ScanConfig, cb engine.Callbacks) {
	s.mu.RLock()
	profile := s.profile
	s.mu.RUnlock()

	checks := s.applicableChecks(profile, cfg)
	total := len(checks)
	if total == 0 {
		cb.OnProgress(1)
		cb.OnDone(nil)
		return
	}

	delay, ok := paceFor[cfg.Speed]
	if !ok {
		delay = paceFor[engine.SpeedMedium]
	}

	for i, chk := range checks {
		select {
		case <-ctx.Done():
			cb.OnDone(ctx.Err())
			return
		case <-time.After(delay):
		}

		cb.OnFinding(engine.RawFinding{
			Type:        chk.Type,
			Severity:    chk.Severity,
			URL:         cfg.TargetURL + chk.Path,
			Parameter:   chk.Parameter,
			Payload:     payloadFor(chk, cfg.Mode),
			Description: chk.Description,
			Evidence:    chk.Evidence,
			Remediation: chk.Remediation,
		})
		cb.OnProgress(float64(i+1) / float64(total))
	}

	cb.OnDone(nil)
}

func (s *Simulator) applicableChecks(profile Profile, cfg engine.ScanConfig) []CheckConfig {
	var out []CheckConfig
	for _, chk := range profile.Checks {
		if !chk.AppliesTo(cfg.Mode) {
			continue
		}
		if crawlDepth(chk.Path) > cfg.Depth {
			s.logger.Debug("Check path beyond crawl depth", logger.Fields{
				"check": chk.Name,
				"path":  chk.Path,
				"depth": cfg.Depth,
			})
			continue
		}
		if excluded(chk.Path, cfg.Exclusions) {
			s.logger.Debug("Check path excluded", logger.Fields{
				"check": chk.Name,
				"path":  chk.Path,
			})
			continue
		}
		out = append(out, chk)
	}
	// Each check visits one page; the configured page limit bounds the run.
	if len(out) > cfg.MaxPages {
		out = out[:cfg.MaxPages]
	}
	return out
}

// crawlDepth is the number of path segments below the target root, the
// simulated stand-in for link distance.
func crawlDepth(checkPath string) int {
	trimmed := strings.Trim(checkPath, "/")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/") + 1
}

// payloadFor withholds payloads from passive scans; passive checks carry
// no payload by definition.
func payloadFor(chk CheckConfig, mode engine.Mode) string {
	if mode == engine.ModePassive {
		return ""
	}
	return chk.Payload
}

func excluded(checkPath string, patterns []string) bool {
	for _, p := range patterns {
		if matched, err := path.Match(p, checkPath); err == nil && matched {
			return true
		}
	}
	return false
}
