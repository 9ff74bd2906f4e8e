package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tieubaoca/rag-studio-be/repository"
	"github.com/tieubaoca/rag-studio-be/types"
	"github.com/tieubaoca/rag-studio-be/utils"
)

const settingsKey = "app_settings"

// SettingsService persists the singleton settings record, encrypting
// secret fields at rest and masking them on read.
type SettingsService struct {
	repo          repository.SettingsRepo
	encryptionKey string
	ollamaURL     string
}

// NewSettingsService builds the settings service. ollamaURL overrides
// the default local provider endpoint when no settings are stored yet.
func NewSettingsService(repo repository.SettingsRepo, encryptionKey, ollamaURL string) *SettingsService {
	return &SettingsService{repo: repo, encryptionKey: encryptionKey, ollamaURL: ollamaURL}
}

// Load returns the stored settings with secrets decrypted, falling back
// to defaults when nothing has been saved yet.
func (s *SettingsService) Load(ctx context.Context) (types.Settings, error) {
	raw, err := s.repo.GetSetting(ctx, settingsKey)
	if errors.Is(err, repository.ErrNotFound) {
		defaults := types.DefaultSettings()
		if s.ollamaURL != "" {
			defaults.LocalBaseURL = s.ollamaURL
		}
		return defaults, nil
	}
	if err != nil {
		return types.Settings{}, err
	}

	var settings types.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return types.Settings{}, fmt.Errorf("failed to parse stored settings: %w", err)
	}
	for _, field := range settings.SecretFields() {
		if *field == "" {
			continue
		}
		plain, err := utils.DecryptString(*field, s.encryptionKey)
		if err != nil {
			return types.Settings{}, fmt.Errorf("failed to decrypt settings secret: %w", err)
		}
		*field = plain
	}
	return settings, nil
}

// LoadMasked is Load with secret fields replaced by the mask sentinel,
// the only form ever returned to a client.
func (s *SettingsService) LoadMasked(ctx context.Context) (types.Settings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return types.Settings{}, err
	}
	for _, field := range settings.SecretFields() {
		if *field != "" {
			*field = types.SecretMask
		}
	}
	return settings, nil
}

// Save stores the settings. Secret fields containing the mask sentinel
// keep their previously stored values.
func (s *SettingsService) Save(ctx context.Context, settings types.Settings) error {
	current, err := s.Load(ctx)
	if err != nil {
		return err
	}

	incoming := settings.SecretFields()
	stored := current.SecretFields()
	for i, field := range incoming {
		if *field == types.SecretMask {
			*field = *stored[i]
		}
		if *field == "" {
			continue
		}
		enc, err := utils.EncryptString(*field, s.encryptionKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt settings secret: %w", err)
		}
		*field = enc
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.repo.SaveSetting(ctx, settingsKey, string(raw))
}
