package dataset

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"sales-dashboard/internal/models"
)

// LoadCredentials reads the users file (yaml, json or toml by extension).
func LoadCredentials(path string) ([]models.Credential, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var creds []models.Credential
	if err := v.UnmarshalKey("users", &creds); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	seen := make(map[string]struct{}, len(creds))
	for i, c := range creds {
		c.Username = strings.TrimSpace(c.Username)
		if c.Username == "" {
			return nil, fmt.Errorf("user %d: empty username", i)
		}
		if !c.Role.Valid() {
			return nil, fmt.Errorf("user %q: unknown role %q", c.Username, c.Role)
		}
		if _, dup := seen[c.Username]; dup {
			return nil, fmt.Errorf("user %q: duplicate entry", c.Username)
		}
		seen[c.Username] = struct{}{}
		creds[i] = c
	}
	return creds, nil
}
