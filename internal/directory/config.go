package directory

import (
	"errors"
	"os"
)

// ErrMissingConfig indicates required directory credentials are absent.
// This is a startup-level configuration error: no remote call is ever
// attempted without a token, base and agents table id.
var ErrMissingConfig = errors.New("missing directory configuration")

type Config struct {
	BaseURL string
	Token   string
	BaseID  string

	AgentsTable          string
	SpecializationsTable string
	UsersTable           string
	AssignmentsTable     string
}

// ConfigFromEnv reads directory (Airtable) config from environment variables.
func ConfigFromEnv() Config {
	base := os.Getenv("AIRTABLE_API_BASE")
	if base == "" {
		base = "https://api.airtable.com"
	}
	return Config{
		BaseURL:              base,
		Token:                os.Getenv("AIRTABLE_API_TOKEN"),
		BaseID:               os.Getenv("AIRTABLE_BASE_ID"),
		AgentsTable:          os.Getenv("AIRTABLE_AGENTS_TABLE_ID"),
		SpecializationsTable: os.Getenv("AIRTABLE_SPECIALIZATIONS_TABLE_ID"),
		UsersTable:           os.Getenv("AIRTABLE_USERS_TABLE_ID"),
		AssignmentsTable:     os.Getenv("AIRTABLE_MANUAL_ASSIGNMENT_TABLE_ID"),
	}
}

// Validate checks the credentials required for the core roster fetch.
func (c Config) Validate() error {
	if c.Token == "" || c.BaseID == "" || c.AgentsTable == "" {
		return ErrMissingConfig
	}
	return nil
}
