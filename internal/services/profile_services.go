package services

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"webscan/pkg/logger"
	"webscan/pkg/scanner"
)

// ProfileInfo summarizes one check profile on disk.
type ProfileInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Checks      int    `json:"checks"`
}

type ProfileServiceMethods interface {
	GetCheckProfiles() []ProfileInfo
}

type profileService struct {
	configPath string
	log        *logger.Logger
}

func NewProfileService(configPath string) ProfileServiceMethods {
	return &profileService{
		configPath: configPath,
		log:        logger.NewLogger(logrus.InfoLevel),
	}
}

func (c *profileService) GetCheckProfiles() []ProfileInfo {
	files, err := os.ReadDir(c.configPath)
	if err != nil {
		c.log.WithError(err).Error("Failed to read profile directory")
		return nil
	}

	profiles := make([]ProfileInfo, 0)

	for _, file := range files {
		if file.IsDir() || (!strings.HasSuffix(file.Name(), ".yaml") && !strings.HasSuffix(file.Name(), ".yml")) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(c.configPath, file.Name()))
		if err != nil {
			c.log.WithError(err).WithField("file", file.Name()).Error("Failed to read profile file")
			continue
		}

		var p scanner.Profile
		if err := yaml.Unmarshal(data, &p); err != nil {
			c.log.WithError(err).WithField("file", file.Name()).Error("Failed to parse profile file")
			continue
		}

		profiles = append(profiles, ProfileInfo{
			Name:        strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())),
			Description: p.Description,
			Checks:      len(p.Checks),
		})
	}

	return profiles
}
