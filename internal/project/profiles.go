package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// DefaultProfilesPath returns the default file path for custom saw profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	return writeJSON(path, profiles)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.GCodeProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.GCodeProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}

	// Loaded profiles are never built-in
	for i := range profiles {
		profiles[i].BuiltIn = false
	}
	return profiles, nil
}

// RegisterCustomProfiles loads profiles from path and makes them available
// to the G-code generator. Entries that shadow a built-in name are skipped
// and reported in the returned error.
func RegisterCustomProfiles(path string) error {
	profiles, err := LoadCustomProfiles(path)
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range profiles {
		if err := model.AddCustomProfile(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExportProfile exports a single profile to a JSON file for sharing.
func ExportProfile(path string, profile model.GCodeProfile) error {
	profile.BuiltIn = false
	return writeJSON(path, profile)
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}

	var profile model.GCodeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.GCodeProfile{}, err
	}

	profile.BuiltIn = false
	if profile.Name == "" {
		return model.GCodeProfile{}, errors.New("imported profile has no name")
	}
	if profile.CutCycle == "" {
		return model.GCodeProfile{}, fmt.Errorf("imported profile %q has no cut cycle", profile.Name)
	}
	return profile, nil
}
