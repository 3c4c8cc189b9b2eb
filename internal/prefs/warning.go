package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "preferences.json"

// Preferences are small UI choices persisted outside the main config file.
type Preferences struct {
	SuppressLargeExportWarning bool `json:"suppress_large_export_warning"`
}

func prefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "discord-exporter-tui")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, prefsFile), nil
}

func Load() (Preferences, error) {
	path, err := prefsPath()
	if err != nil {
		return Preferences{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Preferences{}, nil
		}
		return Preferences{}, err
	}
	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func Save(p Preferences) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LargeExportSuppressed reports the persisted warning preference. Errors
// reading the file count as not suppressed.
func LargeExportSuppressed() bool {
	p, err := Load()
	return err == nil && p.SuppressLargeExportWarning
}

// SetLargeExportSuppressed persists the warning preference.
func SetLargeExportSuppressed(v bool) error {
	p, err := Load()
	if err != nil {
		p = Preferences{}
	}
	p.SuppressLargeExportWarning = v
	return Save(p)
}
