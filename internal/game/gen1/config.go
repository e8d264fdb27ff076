package gen1

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soloroute/soloroute/internal/game/mon"
)

// VersionConfig is the per-version metadata that is not a database: which
// trainers award which badge, which fights count as major, the fixed item
// rewards, and the trainer battle timing model.
type VersionConfig struct {
	VersionName     string            `yaml:"version_name"`
	BaseVersionName string            `yaml:"base_version_name"`
	BadgeRewards    map[string]string `yaml:"badge_rewards"`
	MajorFights     []string          `yaml:"major_fights"`
	FightRewards    map[string]string `yaml:"fight_rewards"`
	TrainerTiming   TimingConfig      `yaml:"trainer_timing"`
}

// TimingConfig is the YAML shape of the trainer timing model.
type TimingConfig struct {
	IntroSeconds   float64 `yaml:"intro_seconds"`
	OutroSeconds   float64 `yaml:"outro_seconds"`
	KOSeconds      float64 `yaml:"ko_seconds"`
	SendOutSeconds float64 `yaml:"send_out_seconds"`
}

// Timing converts the record to the runtime type.
func (t TimingConfig) Timing() mon.TrainerTiming {
	return mon.TrainerTiming{
		IntroSeconds:   t.IntroSeconds,
		OutroSeconds:   t.OutroSeconds,
		KOSeconds:      t.KOSeconds,
		SendOutSeconds: t.SendOutSeconds,
	}
}

var validBadges = map[string]bool{
	BoulderBadge: true,
	CascadeBadge: true,
	ThunderBadge: true,
	RainbowBadge: true,
	SoulBadge:    true,
	MarshBadge:   true,
	VolcanoBadge: true,
	EarthBadge:   true,
}

// Validate reports every invalid badge name at once.
func (c *VersionConfig) Validate() error {
	var errs []string
	if c.VersionName == "" {
		errs = append(errs, "version_name must not be empty")
	}
	for trainer, badge := range c.BadgeRewards {
		if !validBadges[badge] {
			errs = append(errs, fmt.Sprintf("trainer %q awards unknown badge %q", trainer, badge))
		}
	}
	if len(errs) > 0 {
		return errors.New("version config: " + strings.Join(errs, "; "))
	}
	return nil
}

// LoadVersionConfig reads and validates a version.yaml file.
func LoadVersionConfig(path string) (VersionConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return VersionConfig{}, fmt.Errorf("LoadVersionConfig: cannot read %q: %w", path, err)
	}
	var cfg VersionConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return VersionConfig{}, fmt.Errorf("LoadVersionConfig: cannot parse %q: %w", path, err)
	}
	if cfg.BaseVersionName == "" {
		cfg.BaseVersionName = cfg.VersionName
	}
	if err := cfg.Validate(); err != nil {
		return VersionConfig{}, fmt.Errorf("LoadVersionConfig: %w", err)
	}
	return cfg, nil
}
