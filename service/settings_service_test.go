package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/rag-studio-be/database"
	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
)

func newTestSettings(t *testing.T) (*SettingsService, repository.SettingsRepo) {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "settings.db"), false)
	require.NoError(t, err)
	repo := repository.NewSettingsRepo(db)
	return NewSettingsService(repo, "test-encryption-key", ""), repo
}

func TestSettingsDefaultsWhenUnset(t *testing.T) {
	svc, _ := newTestSettings(t)

	settings, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSettings(), settings)
}

func TestSettingsSecretRoundTrip(t *testing.T) {
	svc, repo := newTestSettings(t)
	ctx := context.Background()

	settings := types.DefaultSettings()
	settings.OpenAIAPIKey = "sk-super-secret"
	settings.AWSSecretAccessKey = "aws-secret"
	require.NoError(t, svc.Save(ctx, settings))

	// The raw stored blob must not contain the plaintext secret.
	raw, err := repo.GetSetting(ctx, settingsKey)
	require.NoError(t, err)
	assert.NotContains(t, raw, "sk-super-secret")
	assert.NotContains(t, raw, "aws-secret")

	loaded, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-super-secret", loaded.OpenAIAPIKey)
	assert.Equal(t, "aws-secret", loaded.AWSSecretAccessKey)
}

func TestSettingsMaskedRead(t *testing.T) {
	svc, _ := newTestSettings(t)
	ctx := context.Background()

	settings := types.DefaultSettings()
	settings.OpenAIAPIKey = "sk-super-secret"
	require.NoError(t, svc.Save(ctx, settings))

	masked, err := svc.LoadMasked(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.SecretMask, masked.OpenAIAPIKey)
	assert.Empty(t, masked.AzureAPIKey)
}

func TestSettingsMaskSentinelKeepsStoredValue(t *testing.T) {
	svc, _ := newTestSettings(t)
	ctx := context.Background()

	settings := types.DefaultSettings()
	settings.OpenAIAPIKey = "sk-original"
	require.NoError(t, svc.Save(ctx, settings))

	// Round-trip the masked form back, as the frontend does.
	masked, err := svc.LoadMasked(ctx)
	require.NoError(t, err)
	masked.Temperature = 0.2
	require.NoError(t, svc.Save(ctx, masked))

	loaded, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-original", loaded.OpenAIAPIKey)
	assert.Equal(t, 0.2, loaded.Temperature)
}

func TestSettingsOverwriteSecret(t *testing.T) {
	svc, _ := newTestSettings(t)
	ctx := context.Background()

	settings := types.DefaultSettings()
	settings.OpenAIAPIKey = "sk-old"
	require.NoError(t, svc.Save(ctx, settings))

	settings.OpenAIAPIKey = "sk-new"
	require.NoError(t, svc.Save(ctx, settings))

	loaded, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-new", loaded.OpenAIAPIKey)
}
