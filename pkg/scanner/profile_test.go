package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `description: Test check set

checks:
  - name: reflected-xss
    type: XSS
    severity: high
    modes: [active]
    path: /search
    parameter: q
    payload: "<script>alert(1)</script>"
    description: Reflected XSS in search
    evidence: Script reflected unencoded
    remediation: Encode output
  - name: version-disclosure
    type: Information Disclosure
    severity: low
    modes: [passive]
    path: /
    description: Version header present
    evidence: Server header reveals version
    remediation: Strip the header
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "checks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func loadViper(t *testing.T, path string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	return v
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, sampleProfile)

	p, err := LoadProfile(loadViper(t, path))
	require.NoError(t, err)

	assert.Equal(t, "Test check set", p.Description)
	require.Len(t, p.Checks, 2)
	assert.Equal(t, "reflected-xss", p.Checks[0].Name)
	assert.Equal(t, "high", p.Checks[0].Severity)
	assert.Equal(t, []string{"active"}, p.Checks[0].Modes)
	assert.Equal(t, "/search", p.Checks[0].Path)
}

func TestLoadProfileRejectsEmptyCheckSet(t *testing.T) {
	path := writeProfile(t, "description: empty\nchecks: []\n")

	_, err := LoadProfile(loadViper(t, path))
	assert.ErrorContains(t, err, "no checks")
}

func TestLoadProfileRejectsBadSeverity(t *testing.T) {
	path := writeProfile(t, `description: bad
checks:
  - name: broken
    type: XSS
    severity: critical
    modes: [active]
    path: /x
`)

	_, err := LoadProfile(loadViper(t, path))
	assert.ErrorContains(t, err, "invalid severity")
}

func TestLoadProfileRejectsUnnamedCheck(t *testing.T) {
	path := writeProfile(t, `description: bad
checks:
  - severity: high
    modes: [active]
    path: /x
`)

	_, err := LoadProfile(loadViper(t, path))
	assert.ErrorContains(t, err, "missing name or type")
}

func TestReadProfileDescription(t *testing.T) {
	path := writeProfile(t, sampleProfile)
	assert.Equal(t, "Test check set", ReadProfileDescription(path))

	assert.Empty(t, ReadProfileDescription(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestLoadProfileByNameFallsBackToDefault(t *testing.T) {
	p := LoadProfileByName(t.TempDir(), "nonexistent")
	assert.Equal(t, DefaultProfile().Description, p.Description)
	assert.NotEmpty(t, p.Checks)
}
