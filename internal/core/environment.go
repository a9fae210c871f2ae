package core

import "strings"

// Environment represents the deployment environment of the bot.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises the ENVIRONMENT value into one of the known
// environments. Matching ignores case and surrounding spaces; anything else
// falls back to Development so the bot still starts with verbose logging.
func ParseEnvironment(v string) Environment {
	switch env := Environment(strings.ToLower(strings.TrimSpace(v))); env {
	case Production, Staging, Testing:
		return env
	default:
		return Development
	}
}
