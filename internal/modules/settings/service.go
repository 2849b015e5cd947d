package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ErrUnknownSetting is returned when updating a key that is not in SettingDefaults.
var ErrUnknownSetting = errors.New("unknown setting")

const maskedValue = "********"

// numericRules are validator tags applied to numeric settings.
var numericRules = map[string]string{
	KeyDefaultTolerancePct: "gte=0,lte=100",
	KeyBackupRetentionDays: "gte=0,lte=3650",
}

// Service applies defaults, type conversion and validation on top of the repository.
type Service struct {
	repo              *Repository
	validate          *validator.Validate
	toleranceFallback float64
	log               zerolog.Logger
}

// NewService creates a new settings service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo:              repo,
		validate:          validator.New(),
		toleranceFallback: SettingDefaults[KeyDefaultTolerancePct].(float64),
		log:               log.With().Str("service", "settings").Logger(),
	}
}

// SetToleranceFallback sets the tolerance used while none is stored, normally
// the DEFAULT_TOLERANCE_PCT environment value.
func (s *Service) SetToleranceFallback(pct float64) {
	s.toleranceFallback = pct
}

// GetAll returns every known setting, stored values over defaults. Secrets are masked.
func (s *Service) GetAll() (map[string]interface{}, error) {
	stored, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(SettingDefaults))
	for key, def := range SettingDefaults {
		raw, ok := stored[key]
		switch {
		case !ok:
			result[key] = def
		case StringSettings[key]:
			result[key] = raw
		default:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				s.log.Warn().Err(err).Str("key", key).Str("value", raw).Msg("Invalid stored setting, using default")
				result[key] = def
				continue
			}
			result[key] = f
		}

		if SecretSettings[key] {
			if v, _ := result[key].(string); v != "" {
				result[key] = maskedValue
			}
		}
	}

	return result, nil
}

// GetString returns a string setting, or its default.
func (s *Service) GetString(key string) (string, error) {
	value, err := s.repo.Get(key)
	if err != nil {
		return "", err
	}
	if value == nil {
		def, _ := SettingDefaults[key].(string)
		return def, nil
	}
	return *value, nil
}

// Set validates and stores a setting.
func (s *Service) Set(key string, value interface{}) error {
	if _, ok := SettingDefaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	var stored string
	if StringSettings[key] {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("setting %s must be a string", key)
		}
		stored = strings.TrimSpace(str)
	} else {
		f, err := toFloat(value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		if rule, ok := numericRules[key]; ok {
			if err := s.validate.Var(f, rule); err != nil {
				return fmt.Errorf("setting %s out of range: %w", key, err)
			}
		}
		stored = strconv.FormatFloat(f, 'f', -1, 64)
	}

	description := SettingDescriptions[key]
	if err := s.repo.Set(key, stored, &description); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}

	s.log.Info().Str("key", key).Msg("Setting updated")
	return nil
}

// TolerancePct returns the stored default tolerance. A missing value or a read
// error falls back to the tolerance fallback.
func (s *Service) TolerancePct() float64 {
	value, err := s.repo.GetFloat(KeyDefaultTolerancePct, s.toleranceFallback)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read tolerance setting")
		return s.toleranceFallback
	}
	return value
}

// RetentionDays returns the stored backup retention, or fallback when unset.
func (s *Service) RetentionDays(fallback int) int {
	value, err := s.repo.GetFloat(KeyBackupRetentionDays, float64(fallback))
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read retention setting")
		return fallback
	}
	return int(value)
}

func toFloat(value interface{}) (float64, error) {
	f, err := anyToFloat(value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %v", value)
	}
	return f, nil
}

func anyToFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}
