// profile.go
package models

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"

	"github.com/nanda2463/mindmirror-ai--5/internal/config"
)

// ThresholdProfile is a named preset of classifier thresholds. Fields are
// pointers so a profile can override just the values it cares about.
type ThresholdProfile struct {
	FlowKeystrokes          *float64 `yaml:"flow_keystrokes"`
	FlowSecondaryKeystrokes *float64 `yaml:"flow_secondary_keystrokes"`
	FlowPointerCeiling      *float64 `yaml:"flow_pointer_ceiling"`
	IdleMinutes             *float64 `yaml:"idle_minutes"`
	FatigueMinutes          *float64 `yaml:"fatigue_minutes"`
	BurnoutHours            *float64 `yaml:"burnout_hours"`
	DistractionSwitches     *int     `yaml:"distraction_switches"`
	DecayFactor             *float64 `yaml:"decay_factor"`
	DwellWeight             *float64 `yaml:"dwell_weight"`
}

// ProfileSet holds all presets from the profiles file, keyed by name.
type ProfileSet struct {
	Profiles map[string]ThresholdProfile `yaml:"profiles"`
}

// LoadProfiles reads and parses the profiles.yaml file.
func LoadProfiles(path string) (*ProfileSet, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var set ProfileSet
	err = yaml.Unmarshal(data, &set)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles YAML: %w", err)
	}

	return &set, nil
}

// Apply overlays the profile's set values onto a focus configuration.
func (p ThresholdProfile) Apply(cfg config.FocusConfig) config.FocusConfig {
	if p.FlowKeystrokes != nil {
		cfg.FlowKeystrokes = *p.FlowKeystrokes
	}
	if p.FlowSecondaryKeystrokes != nil {
		cfg.FlowSecondaryKeystrokes = *p.FlowSecondaryKeystrokes
	}
	if p.FlowPointerCeiling != nil {
		cfg.FlowPointerCeiling = *p.FlowPointerCeiling
	}
	if p.IdleMinutes != nil {
		cfg.IdleMinutes = *p.IdleMinutes
	}
	if p.FatigueMinutes != nil {
		cfg.FatigueMinutes = *p.FatigueMinutes
	}
	if p.BurnoutHours != nil {
		cfg.BurnoutHours = *p.BurnoutHours
	}
	if p.DistractionSwitches != nil {
		cfg.DistractionSwitches = *p.DistractionSwitches
	}
	if p.DecayFactor != nil {
		cfg.DecayFactor = *p.DecayFactor
	}
	if p.DwellWeight != nil {
		cfg.DwellWeight = *p.DwellWeight
	}
	return cfg
}
