package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FamilyConfig is the optional YAML roster of family members. Richer than
// the flat FAMILY_NAMES list: members can carry an email address, used to
// prefill profiles on first login.
type FamilyConfig struct {
	Members []MemberConfig `yaml:"members"`
}

// MemberConfig defines one family member in the YAML roster.
type MemberConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email,omitempty"`
}

// LoadFamilyConfig loads the YAML roster file.
// Path is determined by CONFIG_FILE env var, defaulting to "family.yaml".
// Returns nil without error if the file doesn't exist.
func LoadFamilyConfig() (*FamilyConfig, error) {
	path := getEnv("CONFIG_FILE", "family.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Roster file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg FamilyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Names returns the member names in roster order.
func (c *FamilyConfig) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// Emails returns a name-to-email map for members that have one.
func (c *FamilyConfig) Emails() map[string]string {
	if c == nil {
		return nil
	}
	emails := make(map[string]string)
	for _, m := range c.Members {
		if m.Name != "" && m.Email != "" {
			emails[m.Name] = m.Email
		}
	}
	return emails
}
