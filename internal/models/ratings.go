package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RatingScale describes one rating control shown on the article page. The
// wire key doubles as the control identifier the form coordinator gates on.
type RatingScale struct {
	Key         string `yaml:"key"`
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`
	Min         int    `yaml:"min"`
	Max         int    `yaml:"max"`
}

// RatingConfig holds all rating scales of the study.
type RatingConfig struct {
	Scales []RatingScale `yaml:"scales"`
}

// LoadRatingConfig reads and parses the rating-scale definitions file.
func LoadRatingConfig(path string) (*RatingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rating config: %w", err)
	}

	var cfg RatingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating config: %w", err)
	}
	if len(cfg.Scales) == 0 {
		return nil, fmt.Errorf("rating config %s defines no scales", path)
	}
	return &cfg, nil
}

// Keys returns the wire keys of all scales in definition order.
func (c *RatingConfig) Keys() []string {
	keys := make([]string, len(c.Scales))
	for i, s := range c.Scales {
		keys[i] = s.Key
	}
	return keys
}

// ValidateScores checks that every configured scale is present and within
// its range.
func (c *RatingConfig) ValidateScores(scores map[string]int) error {
	for _, s := range c.Scales {
		value, ok := scores[s.Key]
		if !ok {
			return fmt.Errorf("missing rating %q", s.Key)
		}
		if value < s.Min || value > s.Max {
			return fmt.Errorf("rating %q out of range: %d not in [%d, %d]", s.Key, value, s.Min, s.Max)
		}
	}
	return nil
}
