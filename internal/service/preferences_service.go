package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/quocanhngo/focushub/pkg/sounds"
	"gorm.io/datatypes"
)

// PreferencesService handles UI preferences and serves the ambient sound catalog
type PreferencesService struct {
	repo      *repository.PreferencesRepository
	catalog   *sounds.Catalog
	publisher Publisher
}

func NewPreferencesService(repo *repository.PreferencesRepository, catalog *sounds.Catalog, publisher Publisher) *PreferencesService {
	return &PreferencesService{repo: repo, catalog: catalog, publisher: publisherOrNop(publisher)}
}

// Sounds returns the ambient sound catalog
func (s *PreferencesService) Sounds() []sounds.Sound {
	return s.catalog.All()
}

// Get returns saved preferences or the defaults
func (s *PreferencesService) Get(ctx context.Context, userID uuid.UUID) (*model.UserPreferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return model.DefaultPreferences(userID), nil
		}
		return nil, model.NewInternalError(err)
	}
	return prefs, nil
}

// Update merges the request into the current preferences and saves them
func (s *PreferencesService) Update(ctx context.Context, userID uuid.UUID, req model.UpdatePreferencesRequest) (*model.UserPreferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Theme != nil {
		if !model.ValidTheme(*req.Theme) {
			return nil, model.NewValidationError(fmt.Sprintf("unknown theme %q", *req.Theme))
		}
		prefs.Theme = *req.Theme
	}
	if req.AmbientSound != nil {
		if *req.AmbientSound != "" && !s.catalog.Has(*req.AmbientSound) {
			return nil, model.NewValidationError(fmt.Sprintf("unknown ambient sound %q", *req.AmbientSound))
		}
		prefs.AmbientSound = *req.AmbientSound
	}
	if req.AmbientVolume != nil {
		if *req.AmbientVolume < 0 || *req.AmbientVolume > 100 {
			return nil, model.NewValidationError("ambient_volume must be between 0 and 100")
		}
		prefs.AmbientVolume = *req.AmbientVolume
	}
	if len(req.Layout) > 0 {
		if !json.Valid(req.Layout) {
			return nil, model.NewValidationError("layout must be valid JSON")
		}
		prefs.Layout = datatypes.JSON(req.Layout)
	}

	// a fresh row so the upsert only conflicts on user_id
	row := &model.UserPreferences{
		UserID:        userID,
		Theme:         prefs.Theme,
		AmbientSound:  prefs.AmbientSound,
		AmbientVolume: prefs.AmbientVolume,
		Layout:        prefs.Layout,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("save preferences: %w", err))
	}

	publishChange(s.publisher, userID, nil, "user_preferences", model.ChangeUpdate, row)
	return row, nil
}
