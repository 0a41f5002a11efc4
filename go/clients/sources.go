package clients

import (
	"net/url"
	"strings"
)

// BackendSource names a deployment of the tournament backend
type BackendSource string

const (
	// BackendSourceLocal is a backend running next to the client
	BackendSourceLocal BackendSource = "local"

	// BackendSourceHeroku is the hosted party deployment
	BackendSourceHeroku BackendSource = "heroku"
)

// BackendSourceConfig holds configuration for a backend source
type BackendSourceConfig struct {
	Source      BackendSource `json:"source" yaml:"source"`
	Name        string        `json:"name" yaml:"name"`
	Origin      string        `json:"origin" yaml:"origin"`
	Description string        `json:"description" yaml:"description"`
	Priority    int           `json:"priority" yaml:"priority"` // Higher priority sources win when none is chosen
	Active      bool          `json:"active" yaml:"active"`
}

// APIBaseURL returns the REST root for the source.
func (c BackendSourceConfig) APIBaseURL() string {
	return strings.TrimSuffix(c.Origin, "/") + "/api/"
}

// PlayerLink returns the link a team opens to play as itself.
func (c BackendSourceConfig) PlayerLink(identifier string) string {
	return strings.TrimSuffix(c.Origin, "/") + "/?player_id=" + url.QueryEscape(identifier)
}

// GetBackendSources returns all known backend sources
func GetBackendSources() map[BackendSource]BackendSourceConfig {
	return map[BackendSource]BackendSourceConfig{
		BackendSourceLocal: {
			Source:      BackendSourceLocal,
			Name:        "Local",
			Origin:      "http://localhost:8000",
			Description: "Backend running on this machine",
			Priority:    100,
			Active:      true,
		},
		BackendSourceHeroku: {
			Source:      BackendSourceHeroku,
			Name:        "Heroku",
			Origin:      "https://bday2025-daa089d5c915.herokuapp.com",
			Description: "Hosted birthday deployment",
			Priority:    90,
			Active:      true,
		},
	}
}

// ValidateBackendSource checks if the source is valid
func ValidateBackendSource(source BackendSource) bool {
	_, exists := GetBackendSources()[source]
	return exists
}

// GetActiveBackendSources returns only active sources
func GetActiveBackendSources() map[BackendSource]BackendSourceConfig {
	active := make(map[BackendSource]BackendSourceConfig)
	for source, config := range GetBackendSources() {
		if config.Active {
			active[source] = config
		}
	}
	return active
}

// GetHighestPrioritySource returns the active source with highest priority
func GetHighestPrioritySource() BackendSource {
	var highest BackendSource
	var highestPriority int

	for source, config := range GetActiveBackendSources() {
		if config.Priority > highestPriority {
			highest = source
			highestPriority = config.Priority
		}
	}

	return highest
}
