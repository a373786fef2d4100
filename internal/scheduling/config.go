package scheduling

import (
	"errors"
	"os"
)

// ErrMissingConfig indicates the scheduling platform credential or team
// id is absent.
var ErrMissingConfig = errors.New("missing scheduling platform configuration")

type Config struct {
	BaseURL string
	APIKey  string
	TeamID  string
}

// ConfigFromEnv reads scheduling platform (Cal.com) config from
// environment variables.
func ConfigFromEnv() Config {
	base := os.Getenv("CALCOM_API_BASE")
	if base == "" {
		base = "https://api.cal.com"
	}
	return Config{
		BaseURL: base,
		APIKey:  os.Getenv("CALCOM_API_KEY"),
		TeamID:  os.Getenv("CALCOM_TEAM_ID"),
	}
}

// Validate checks the credentials required for membership and booking
// fetches.
func (c Config) Validate() error {
	if c.APIKey == "" || c.TeamID == "" {
		return ErrMissingConfig
	}
	return nil
}
