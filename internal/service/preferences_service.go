package service

import (
	"context"
	"strings"

	apperrors "studytrack/backend/internal/errors"
	"studytrack/backend/internal/model"
	"studytrack/backend/internal/repository"
)

// PreferencesService owns the subject document rules: subjects are
// unique, case-normalized to lowercase, and every subject's color is
// unique across the whole document. Uniqueness is a set-membership
// check here, not a database constraint.
type PreferencesService struct {
	prefsRepo *repository.PreferencesRepository
}

func NewPreferencesService(prefsRepo *repository.PreferencesRepository) *PreferencesService {
	return &PreferencesService{prefsRepo: prefsRepo}
}

func (s *PreferencesService) Get(ctx context.Context, userID string) (*model.Preferences, *apperrors.APIError) {
	prefs, err := s.prefsRepo.Get(ctx, userID)
	if err == repository.ErrNotFound {
		// A missing document reads as an empty one.
		return &model.Preferences{Subjects: []string{}, Colors: map[string]string{}}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load preferences")
	}
	return prefs, nil
}

func (s *PreferencesService) Put(ctx context.Context, userID string, prefs model.Preferences) (*model.Preferences, *apperrors.APIError) {
	normalized, apiErr := normalizePreferences(prefs)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := s.prefsRepo.Put(ctx, userID, *normalized); err != nil {
		return nil, apperrors.Internal("failed to save preferences")
	}
	return normalized, nil
}

// HasSubject reports whether the subject belongs to the user's current
// subject set. The check is case-insensitive.
func (s *PreferencesService) HasSubject(ctx context.Context, userID, subject string) (bool, *apperrors.APIError) {
	prefs, apiErr := s.Get(ctx, userID)
	if apiErr != nil {
		return false, apiErr
	}
	needle := normalizeSubject(subject)
	for _, existing := range prefs.Subjects {
		if existing == needle {
			return true, nil
		}
	}
	return false, nil
}

func normalizePreferences(prefs model.Preferences) (*model.Preferences, *apperrors.APIError) {
	// Clients may key the color map however they keyed the subject
	// list, so normalize the keys before matching.
	colorsBySubject := make(map[string]string, len(prefs.Colors))
	for raw, color := range prefs.Colors {
		colorsBySubject[normalizeSubject(raw)] = color
	}

	subjects := make([]string, 0, len(prefs.Subjects))
	seenSubjects := make(map[string]struct{}, len(prefs.Subjects))
	seenColors := make(map[string]string, len(prefs.Subjects))
	colors := make(map[string]string, len(prefs.Subjects))

	for _, raw := range prefs.Subjects {
		subject := normalizeSubject(raw)
		if subject == "" {
			return nil, apperrors.BadRequest("invalid_subject", "subject names must be non-empty")
		}
		if _, dup := seenSubjects[subject]; dup {
			return nil, apperrors.BadRequest("duplicate_subject", "subject "+subject+" appears more than once")
		}
		seenSubjects[subject] = struct{}{}
		subjects = append(subjects, subject)

		color := colorsBySubject[subject]
		if color == "" {
			return nil, apperrors.BadRequest("missing_color", "subject "+subject+" has no color")
		}
		if owner, taken := seenColors[color]; taken {
			return nil, apperrors.BadRequest("duplicate_color", "color "+color+" already used by "+owner)
		}
		seenColors[color] = subject
		colors[subject] = color
	}

	return &model.Preferences{Subjects: subjects, Colors: colors}, nil
}

func normalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
