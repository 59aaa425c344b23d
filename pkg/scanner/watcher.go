package scanner

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"webscan/internal/utils"
)

// WatchProfile reloads the simulator's check profile whenever the named
// profile file under configPath changes. Reload failures keep the last
// good profile. Blocks until ctx is cancelled; run it in a goroutine.
func WatchProfile(ctx context.Context, sim *Simulator, configPath, name string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Errorf("Failed to create profile watcher: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(configPath); err != nil {
		log.Errorf("Error watching profile directory %s: %v", configPath, err)
		return
	}

	// Writes come in bursts; debounce before reloading.
	var pending bool
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			base := filepath.Base(event.Name)
			if base != name+".yaml" && base != name+".yml" {
				continue
			}
			pending = true

		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false

			v, err := utils.NewViperConfigWithOptions(utils.ConfigOptions{
				ConfigPath: configPath,
				ConfigName: name,
				ConfigType: "yaml",
				EnvPrefix:  "WEBSCAN",
			})
			if err != nil {
				log.Errorf("Profile reload skipped: %v", err)
				continue
			}
			profile, err := LoadProfile(v)
			if err != nil {
				log.Errorf("Profile reload skipped: %v", err)
				continue
			}
			sim.Reload(profile)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("Profile watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

// LoadProfileByName loads a named profile from the standard config search
// paths, falling back to the built-in default when no file exists.
func LoadProfileByName(configPath, name string) Profile {
	v, err := utils.NewViperConfigWithOptions(utils.ConfigOptions{
		ConfigPath: configPath,
		ConfigName: name,
		ConfigType: "yaml",
		EnvPrefix:  "WEBSCAN",
	})
	if err != nil {
		log.Debugf("Using built-in check profile: %v", err)
		return DefaultProfile()
	}
	profile, err := LoadProfile(v)
	if err != nil {
		log.Errorf("Invalid check profile %s, using built-in: %v", name, err)
		return DefaultProfile()
	}
	return profile
}
