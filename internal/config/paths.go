package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "EVE2CML_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "eve2cml.yaml"
	// ConfigDirName is the per-user and system config directory
	ConfigDirName = "eve2cml"

	userFileName = "config.yaml"
)

// FindConfigPath returns the first existing config file, or "" when there
// is none. The working directory candidate is returned as an absolute path
// so a relative mapper resolves the same way from anywhere.
func FindConfigPath() string {
	for _, candidate := range configCandidates() {
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// configCandidates lists the config locations in lookup order:
// $EVE2CML_CONFIG, ./eve2cml.yaml, $XDG_CONFIG_HOME, ~/.config and /etc.
// Unset variables contribute nothing.
func configCandidates() []string {
	var candidates []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		candidates = append(candidates, p)
	}

	local := ConfigFileName
	if abs, err := filepath.Abs(local); err == nil {
		local = abs
	}
	candidates = append(candidates, local)

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, ConfigDirName, userFileName))
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", ConfigDirName, userFileName))
	}
	return append(candidates, filepath.Join("/etc", ConfigDirName, userFileName))
}

// fileExists is false for directories, so a stray eve2cml.yaml/ directory
// is passed over
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
