package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "webscan/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawConfig
		wantField string
	}{
		{
			name: "Valid Minimal Config",
			raw:  RawConfig{TargetURL: "https://example.com", MaxPages: 10, Mode: "passive", Speed: "fast"},
		},
		{
			name: "Valid Active Config With Exclusions",
			raw: RawConfig{
				TargetURL:  "http://example.com/app",
				Depth:      10,
				MaxPages:   1000,
				Exclusions: []string{"/logout", "/admin/*"},
				Mode:       "active",
				Speed:      "slow",
			},
		},
		{
			name:      "Relative URL Rejected",
			raw:       RawConfig{TargetURL: "/just/a/path", MaxPages: 10, Mode: "passive", Speed: "fast"},
			wantField: "target_url",
		},
		{
			name:      "Unsupported Scheme Rejected",
			raw:       RawConfig{TargetURL: "ftp://example.com", MaxPages: 10, Mode: "passive", Speed: "fast"},
			wantField: "target_url",
		},
		{
			name:      "Empty Target Rejected",
			raw:       RawConfig{TargetURL: "", MaxPages: 10, Mode: "passive", Speed: "fast"},
			wantField: "target_url",
		},
		{
			name:      "Negative Depth Rejected",
			raw:       RawConfig{TargetURL: "https://example.com", Depth: -1, MaxPages: 10, Mode: "passive", Speed: "fast"},
			wantField: "depth",
		},
		{
			name:      "Depth Above Limit Rejected",
			raw:       RawConfig{TargetURL: "https://example.com", Depth: 11, MaxPages: 10, Mode: "passive", Speed: "fast"},
			wantField: "depth",
		},
		{
			name:      "Zero MaxPages Rejected",
			raw:       RawConfig{TargetURL: "https://example.com", MaxPages: 0, Mode: "passive", Speed: "fast"},
			wantField: "max_pages",
		},
		{
			name:      "MaxPages Above Limit Rejected",
			raw:       RawConfig{TargetURL: "https://example.com", MaxPages: 1001, Mode: "passive", Speed: "fast"},
			wantField: "max_pages",
		},
		{
			name:      "Unknown Mode Rejected",
			raw:       RawConfig{TargetURL: "https://example.com", MaxPages: 10, Mode: "aggressive", Speed: "fast"},
			wantField: "mode",
		},
		{
			name:      "Empty Mode Rejected",
			raw:       RawConfig{TargetURL: "https://example.com", MaxPages: 10, Mode: "", Speed: "fast"},
			wantField: "mode",
		},
		{
			name:      "Unknown Speed Rejected",
			raw:       RawConfig{TargetURL: "https://example.com", MaxPages: 10, Mode: "passive", Speed: "turbo"},
			wantField: "speed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Validate(tt.raw)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.raw.TargetURL, cfg.TargetURL)
				assert.Equal(t, Mode(tt.raw.Mode), cfg.Mode)
				assert.Equal(t, Speed(tt.raw.Speed), cfg.Speed)
				return
			}

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestValidateNormalizesExclusions(t *testing.T) {
	cfg, err := Validate(RawConfig{
		TargetURL:  "https://example.com",
		MaxPages:   10,
		Mode:       "passive",
		Speed:      "fast",
		Exclusions: []string{" /logout ", "/logout", "", "/admin/*", "[bad"},
	})
	require.NoError(t, err)

	// Trimmed, deduplicated, empties and malformed patterns dropped.
	assert.Equal(t, []string{"/logout", "/admin/*"}, cfg.Exclusions)
}

func TestParseSeverity(t *testing.T) {
	for _, valid := range []string{"high", "medium", "low"} {
		sev, err := ParseSeverity(valid)
		assert.NoError(t, err)
		assert.Equal(t, Severity(valid), sev)
	}

	for _, invalid := range []string{"", "critical", "HIGH", "info"} {
		_, err := ParseSeverity(invalid)
		assert.ErrorIs(t, err, apperrors.ErrInvalidSeverity, "severity %q", invalid)
	}
}
