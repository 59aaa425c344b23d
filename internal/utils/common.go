package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ConfigOptions holds configuration loading options
type ConfigOptions struct {
	ConfigPath  string
	ConfigName  string
	ConfigType  string
	EnvPrefix   string
	DefaultsMap map[string]interface{}
}

// NewViperConfigWithOptions creates a Viper configuration with custom options
func NewViperConfigWithOptions(opts ConfigOptions) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigType(opts.ConfigType)

	configPaths := []string{opts.ConfigPath}
	if opts.ConfigPath != "./config" {
		configPaths = append(configPaths, "./config")
	}
	configPaths = append(configPaths, "/etc/webscan", "$HOME/.webscan")

	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	v.SetConfigName(opts.ConfigName)

	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	}

	for key, value := range opts.DefaultsMap {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file '%s' not found in paths: %v", opts.ConfigName, configPaths)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	log.Debugf("Loaded config file: %s", v.ConfigFileUsed())
	return v, nil
}

// CreateScanOutputDirectory creates a timestamped output directory for a
// scan run's report artifacts and log.
func CreateScanOutputDirectory(baseDir, target string) (string, error) {
	dirName := fmt.Sprintf("%s_%s",
		sanitizeForFilesystem(target),
		time.Now().Format("2006-01-02_15-04-05"))

	dir := filepath.Join(baseDir, dirName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Errorf("Error creating scan output directory: %v", err)
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return dir, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}

	return absDir, nil
}

// sanitizeForFilesystem removes or replaces characters that are invalid in filenames
func sanitizeForFilesystem(input string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)

	sanitized := replacer.Replace(input)

	sanitized = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, sanitized)

	if sanitized == "" {
		sanitized = "unknown"
	}

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	return sanitized
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	return nil
}
