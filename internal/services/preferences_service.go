package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"agentdesk/internal/database"
	"agentdesk/internal/models"
)

// PreferencesService persists onboarding state in the preferences table
type PreferencesService struct {
	db *database.DB
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(db *database.DB) *PreferencesService {
	return &PreferencesService{db: db}
}

// Get reads preferences, falling back to defaults for missing keys
func (s *PreferencesService) Get() (models.Preferences, error) {
	prefs := models.Preferences{SelectedAgentIDs: []string{}}

	raw, err := s.get(models.SettingKeyOnboardingCompleted)
	if err != nil {
		return prefs, err
	}
	if raw != "" {
		prefs.OnboardingCompleted, _ = strconv.ParseBool(raw)
	}

	raw, err = s.get(models.SettingKeySelectedAgentIDs)
	if err != nil {
		return prefs, err
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &prefs.SelectedAgentIDs); err != nil {
			log.Printf("⚠️  Ignoring malformed %s: %v", models.SettingKeySelectedAgentIDs, err)
			prefs.SelectedAgentIDs = []string{}
		}
	}
	return prefs, nil
}

// Update writes the fields present in the request and returns the result
func (s *PreferencesService) Update(req models.UpdatePreferencesRequest) (models.Preferences, error) {
	if req.OnboardingCompleted != nil {
		if err := s.set(models.SettingKeyOnboardingCompleted, strconv.FormatBool(*req.OnboardingCompleted)); err != nil {
			return models.Preferences{}, err
		}
	}
	if req.SelectedAgentIDs != nil {
		encoded, err := json.Marshal(req.SelectedAgentIDs)
		if err != nil {
			return models.Preferences{}, fmt.Errorf("failed to encode agent ids: %w", err)
		}
		if err := s.set(models.SettingKeySelectedAgentIDs, string(encoded)); err != nil {
			return models.Preferences{}, err
		}
	}
	return s.Get()
}

func (s *PreferencesService) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE "+s.db.KeyColumn()+" = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

func (s *PreferencesService) set(key, value string) error {
	if _, err := s.db.Exec(s.db.UpsertSQL("preferences"), key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}
