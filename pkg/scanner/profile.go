// Package scanner provides the simulated scanning backend. It satisfies
// the engine.Backend contract and is the stand-in for a real crawl/check
// engine: the orchestrator's state machine needs no change to swap it out.
package scanner

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"webscan/pkg/engine"
)

// CheckConfig describes one simulated vulnerability check.
type CheckConfig struct {
	Name        string   `yaml:"name" mapstructure:"name"`
	Type        string   `yaml:"type" mapstructure:"type"`
	Severity    string   `yaml:"severity" mapstructure:"severity"`
	Modes       []string `yaml:"modes" mapstructure:"modes"`
	Path        string   `yaml:"path" mapstructure:"path"`
	Parameter   string   `yaml:"parameter,omitempty" mapstructure:"parameter"`
	Payload     string   `yaml:"payload,omitempty" mapstructure:"payload"`
	Description string   `yaml:"description" mapstructure:"description"`
	Evidence    string   `yaml:"evidence" mapstructure:"evidence"`
	Remediation string   `yaml:"remediation" mapstructure:"remediation"`
}

// AppliesTo reports whether the check runs under the given scan mode.
// Passive checks also run during active scans; the reverse does not hold.
func (c CheckConfig) AppliesTo(mode engine.Mode) bool {
	for _, m := range c.Modes {
		if engine.Mode(m) == mode {
			return true
		}
		if engine.Mode(m) == engine.ModePassive && mode == engine.ModeActive {
			return true
		}
	}
	return false
}

// Profile is a named set of checks the simulator executes per scan.
type Profile struct {
	Description string        `yaml:"description" mapstructure:"description"`
	Checks      []CheckConfig `yaml:"checks" mapstructure:"checks"`
}

// LoadProfile unmarshals and validates a check profile from a viper config.
func LoadProfile(v *viper.Viper) (Profile, error) {
	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse check profile: %w", err)
	}
	if len(p.Checks) == 0 {
		return Profile{}, fmt.Errorf("check profile contains no checks")
	}
	for _, c := range p.Checks {
		if c.Name == "" || c.Type == "" {
			return Profile{}, fmt.Errorf("check missing name or type")
		}
		if _, err := engine.ParseSeverity(c.Severity); err != nil {
			return Profile{}, fmt.Errorf("check %s: invalid severity %q", c.Name, c.Severity)
		}
	}
	return p, nil
}

// ReadProfileDescription peeks at a profile file's description without a
// full parse, for listings.
func ReadProfileDescription(path string) string {
	type profileMeta struct {
		Description string `yaml:"description,omitempty"`
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var meta profileMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return ""
	}

	return meta.Description
}

// DefaultProfile is the built-in check set used when no profile file is
// configured.
func DefaultProfile() Profile {
	return Profile{
		Description: "Built-in simulated check set",
		Checks: []CheckConfig{
			{
				Name:        "reflected-xss",
				Type:        string(engine.VulnXSS),
				Severity:    string(engine.SeverityHigh),
				Modes:       []string{string(engine.ModeActive)},
				Path:        "/search",
				Parameter:   "q",
				Payload:     "<script>alert(1)</script>",
				Description: "Reflected cross-site scripting in the search parameter",
				Evidence:    "Injected script tag reflected unencoded in the response body",
				Remediation: "Encode all user-controlled output; set a restrictive Content-Security-Policy",
			},
			{
				Name:        "error-based-sqli",
				Type:        string(engine.VulnSQLInjection),
				Severity:    string(engine.SeverityHigh),
				Modes:       []string{string(engine.ModeActive)},
				Path:        "/products",
				Parameter:   "id",
				Payload:     "' OR '1'='1",
				Description: "Error-based SQL injection in the product lookup",
				Evidence:    "Database error text surfaced in the response after quote injection",
				Remediation: "Use parameterized queries; never concatenate user input into SQL",
			},
			{
				Name:        "missing-csrf-token",
				Type:        string(engine.VulnCSRF),
				Severity:    string(engine.SeverityMedium),
				Modes:       []string{string(engine.ModePassive)},
				Path:        "/account/settings",
				Description: "State-changing form submits without an anti-CSRF token",
				Evidence:    "POST form markup contains no csrf token field",
				Remediation: "Add per-session CSRF tokens to all state-changing requests",
			},
			{
				Name:        "server-version-disclosure",
				Type:        string(engine.VulnInfoDisclosure),
				Severity:    string(engine.SeverityLow),
				Modes:       []string{string(engine.ModePassive)},
				Path:        "/",
				Description: "Server response discloses software version information",
				Evidence:    "Server: nginx/1.18.0 header present in responses",
				Remediation: "Suppress or genericize the Server and X-Powered-By headers",
			},
			{
				Name:        "missing-security-headers",
				Type:        string(engine.VulnInsecureHeaders),
				Severity:    string(engine.SeverityLow),
				Modes:       []string{string(engine.ModePassive)},
				Path:        "/",
				Description: "Responses lack standard security headers",
				Evidence:    "X-Content-Type-Options and X-Frame-Options absent from responses",
				Remediation: "Set X-Content-Type-Options: nosniff and a frame-ancestors policy",
			},
		},
	}
}
