package models

import "time"

// Setting is one row of the key-value preferences table
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Preference keys
const (
	SettingKeyOnboardingCompleted = "onboarding_completed"
	SettingKeySelectedAgentIDs    = "selected_agent_ids"
)

// Preferences holds what the client remembers between visits
type Preferences struct {
	OnboardingCompleted bool     `json:"onboardingCompleted"`
	SelectedAgentIDs    []string `json:"selectedAgentIds"`
}

// UpdatePreferencesRequest is sent when onboarding completes or is skipped
type UpdatePreferencesRequest struct {
	OnboardingCompleted *bool    `json:"onboarding_completed,omitempty"`
	SelectedAgentIDs    []string `json:"selected_agent_ids,omitempty"`
}
