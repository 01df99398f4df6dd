package settings

import (
	"fmt"
	"regexp"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/rs/zerolog"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// Service manages user preferences
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new settings service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "settings").Logger(),
	}
}

// GetAll returns the user's settings merged over the defaults
func (s *Service) GetAll(userID int64) (map[string]string, error) {
	stored, err := s.repo.GetAll(userID)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(SettingDefaults)+len(stored))
	for k, v := range SettingDefaults {
		result[k] = v
	}
	for k, v := range stored {
		result[k] = v
	}
	return result, nil
}

// Set validates and stores one setting, returning the normalised value
func (s *Service) Set(userID int64, key string, value interface{}) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", domain.NewValidationError("key", "invalid setting key %q", key)
	}

	str, ok := value.(string)
	if !ok {
		return "", domain.NewValidationError(key, "value must be a string")
	}

	if validate, known := validators[key]; known {
		normalised, err := validate(str)
		if err != nil {
			return "", err
		}
		str = normalised
	}

	if err := s.repo.Set(userID, key, str); err != nil {
		return "", err
	}

	s.log.Debug().Int64("user_id", userID).Str("key", key).Msg("Setting updated")
	return str, nil
}

// Theme returns the user's preferred theme, light when unset.
// A stored value that no longer parses also falls back to light.
func (s *Service) Theme(userID int64) (domain.Theme, error) {
	value, err := s.repo.Get(userID, KeyTheme)
	if err != nil {
		return "", fmt.Errorf("failed to read theme: %w", err)
	}
	if value == nil {
		return domain.ThemeLight, nil
	}
	theme, ok := domain.ParseTheme(*value)
	if !ok {
		s.log.Warn().Int64("user_id", userID).Str("value", *value).Msg("Stored theme is invalid, using light")
		return domain.ThemeLight, nil
	}
	return theme, nil
}
