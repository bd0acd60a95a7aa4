package services

import (
	"path/filepath"
	"testing"

	"agentdesk/internal/database"
	"agentdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPreferences(t *testing.T) *PreferencesService {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize())
	return NewPreferencesService(db)
}

func TestPreferencesDefaults(t *testing.T) {
	prefs, err := newPreferences(t).Get()
	require.NoError(t, err)
	assert.False(t, prefs.OnboardingCompleted)
	assert.Empty(t, prefs.SelectedAgentIDs)
	assert.NotNil(t, prefs.SelectedAgentIDs)
}

func TestPreferencesUpdate(t *testing.T) {
	svc := newPreferences(t)
	done := true

	prefs, err := svc.Update(models.UpdatePreferencesRequest{
		OnboardingCompleted: &done,
		SelectedAgentIDs:    []string{"1", "3"},
	})
	require.NoError(t, err)
	assert.True(t, prefs.OnboardingCompleted)
	assert.Equal(t, []string{"1", "3"}, prefs.SelectedAgentIDs)

	// Partial update leaves the other key alone
	prefs, err = svc.Update(models.UpdatePreferencesRequest{SelectedAgentIDs: []string{}})
	require.NoError(t, err)
	assert.True(t, prefs.OnboardingCompleted)
	assert.Empty(t, prefs.SelectedAgentIDs)
}
