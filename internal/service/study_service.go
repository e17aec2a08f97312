package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
)

// StudyService handles flashcard categories and flashcards. Room-scoped rows
// are readable by every member and writable only by their author.
type StudyService struct {
	categoryRepo  *repository.CategoryRepository
	flashcardRepo *repository.FlashcardRepository
	roomRepo      *repository.RoomRepository
	publisher     Publisher
}

func NewStudyService(
	categoryRepo *repository.CategoryRepository,
	flashcardRepo *repository.FlashcardRepository,
	roomRepo *repository.RoomRepository,
	publisher Publisher,
) *StudyService {
	return &StudyService{
		categoryRepo:  categoryRepo,
		flashcardRepo: flashcardRepo,
		roomRepo:      roomRepo,
		publisher:     publisherOrNop(publisher),
	}
}

// ==================== Categories ====================

// CreateCategory creates a personal or room category. Personal names are unique per user.
func (s *StudyService) CreateCategory(ctx context.Context, userID uuid.UUID, req model.CreateCategoryRequest) (*model.Category, error) {
	if req.RoomID != nil {
		if err := requireMember(ctx, s.roomRepo, *req.RoomID, userID); err != nil {
			return nil, err
		}
	}

	name := strings.TrimSpace(req.Name)
	if req.RoomID == nil {
		if _, err := s.categoryRepo.FindPersonalByName(ctx, userID, name); err == nil {
			return nil, model.NewConflictError("a category with this name already exists")
		} else if !isNotFound(err) {
			return nil, model.NewInternalError(err)
		}
	}

	c := &model.Category{UserID: userID, RoomID: req.RoomID, Name: name, Color: req.Color}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		if isDuplicate(err) {
			return nil, model.NewConflictError("a category with this name already exists")
		}
		return nil, model.NewInternalError(fmt.Errorf("create category: %w", err))
	}

	publishChange(s.publisher, userID, c.RoomID, "categories", model.ChangeInsert, c)
	return c, nil
}

// ListCategories returns the user's personal categories, or a room's when roomID is set
func (s *StudyService) ListCategories(ctx context.Context, userID uuid.UUID, roomID *uuid.UUID) ([]model.Category, error) {
	if roomID != nil {
		if err := requireMember(ctx, s.roomRepo, *roomID, userID); err != nil {
			return nil, err
		}
		categories, err := s.categoryRepo.ListByRoom(ctx, *roomID)
		if err != nil {
			return nil, model.NewInternalError(err)
		}
		return categories, nil
	}

	categories, err := s.categoryRepo.ListPersonal(ctx, userID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return categories, nil
}

// UpdateCategory renames or recolors a category the caller created
func (s *StudyService) UpdateCategory(ctx context.Context, userID, id uuid.UUID, req model.UpdateCategoryRequest) (*model.Category, error) {
	c, err := s.authoredCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if c.RoomID == nil && name != c.Name {
			if _, err := s.categoryRepo.FindPersonalByName(ctx, userID, name); err == nil {
				return nil, model.NewConflictError("a category with this name already exists")
			} else if !isNotFound(err) {
				return nil, model.NewInternalError(err)
			}
		}
		updates["name"] = name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if len(updates) > 0 {
		if err := s.categoryRepo.Update(ctx, id, updates); err != nil {
			if isDuplicate(err) {
				return nil, model.NewConflictError("a category with this name already exists")
			}
			return nil, model.NewInternalError(err)
		}
	}

	updated, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, updated.RoomID, "categories", model.ChangeUpdate, updated)
	return updated, nil
}

// DeleteCategory removes a category. Its flashcards stay, uncategorized.
func (s *StudyService) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.authoredCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, c.RoomID, "categories", model.ChangeDelete, recordRef{ID: id})
	return nil
}

func (s *StudyService) authoredCategory(ctx context.Context, userID, id uuid.UUID) (*model.Category, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Category", id)
	}
	if c.UserID != userID {
		if c.RoomID == nil {
			return nil, model.NewNotFoundError("Category", id)
		}
		return nil, model.NewForbiddenError("only the author can change this category")
	}
	return c, nil
}

// ==================== Flashcards ====================

// CreateFlashcard adds a card. The category must belong to the user, or to
// the same room for room cards.
func (s *StudyService) CreateFlashcard(ctx context.Context, userID uuid.UUID, req model.CreateFlashcardRequest) (*model.Flashcard, error) {
	if req.RoomID != nil {
		if err := requireMember(ctx, s.roomRepo, *req.RoomID, userID); err != nil {
			return nil, err
		}
	}
	if err := s.checkCategory(ctx, userID, req.RoomID, req.CategoryID); err != nil {
		return nil, err
	}

	f := &model.Flashcard{
		UserID:     userID,
		RoomID:     req.RoomID,
		CategoryID: req.CategoryID,
		Front:      strings.TrimSpace(req.Front),
		Back:       strings.TrimSpace(req.Back),
	}
	if err := s.flashcardRepo.Create(ctx, f); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("create flashcard: %w", err))
	}

	publishChange(s.publisher, userID, f.RoomID, "flashcards", model.ChangeInsert, f)
	return f, nil
}

// ListFlashcards lists personal cards, or a room's cards when filter.RoomID is set
func (s *StudyService) ListFlashcards(ctx context.Context, userID uuid.UUID, filter model.FlashcardFilter) ([]model.Flashcard, error) {
	if filter.RoomID != nil {
		if err := requireMember(ctx, s.roomRepo, *filter.RoomID, userID); err != nil {
			return nil, err
		}
	}
	cards, err := s.flashcardRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return cards, nil
}

// GetFlashcard returns a card the caller can read
func (s *StudyService) GetFlashcard(ctx context.Context, userID, id uuid.UUID) (*model.Flashcard, error) {
	f, err := s.flashcardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Flashcard", id)
	}
	if err := s.canRead(ctx, userID, f); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFlashcard edits a card the caller authored
func (s *StudyService) UpdateFlashcard(ctx context.Context, userID, id uuid.UUID, req model.UpdateFlashcardRequest) (*model.Flashcard, error) {
	f, err := s.authoredFlashcard(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Front != nil {
		updates["front"] = strings.TrimSpace(*req.Front)
	}
	if req.Back != nil {
		updates["back"] = strings.TrimSpace(*req.Back)
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, f.RoomID, req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Mastered != nil {
		updates["mastered"] = *req.Mastered
	}
	if len(updates) > 0 {
		if err := s.flashcardRepo.Update(ctx, id, updates); err != nil {
			return nil, model.NewInternalError(err)
		}
	}

	return s.reloadAndPublish(ctx, userID, id)
}

// ReviewFlashcard records a study pass over a card and optionally sets mastery
func (s *StudyService) ReviewFlashcard(ctx context.Context, userID, id uuid.UUID, req model.ReviewFlashcardRequest) (*model.Flashcard, error) {
	f, err := s.flashcardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Flashcard", id)
	}
	if f.UserID != userID {
		if err := s.canRead(ctx, userID, f); err != nil {
			return nil, err
		}
		return nil, model.NewForbiddenError("only the author can review this flashcard")
	}

	if err := s.flashcardRepo.RecordReview(ctx, id, req.Mastered); err != nil {
		return nil, model.NewInternalError(err)
	}
	return s.reloadAndPublish(ctx, userID, id)
}

// DeleteFlashcard removes a card the caller authored
func (s *StudyService) DeleteFlashcard(ctx context.Context, userID, id uuid.UUID) error {
	f, err := s.authoredFlashcard(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.flashcardRepo.Delete(ctx, id); err != nil {
		return model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, f.RoomID, "flashcards", model.ChangeDelete, recordRef{ID: id})
	return nil
}

func (s *StudyService) reloadAndPublish(ctx context.Context, userID, id uuid.UUID) (*model.Flashcard, error) {
	updated, err := s.flashcardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, updated.RoomID, "flashcards", model.ChangeUpdate, updated)
	return updated, nil
}

func (s *StudyService) canRead(ctx context.Context, userID uuid.UUID, f *model.Flashcard) error {
	if f.UserID == userID {
		return nil
	}
	if f.RoomID == nil {
		return model.NewNotFoundError("Flashcard", f.ID)
	}
	return requireMember(ctx, s.roomRepo, *f.RoomID, userID)
}

func (s *StudyService) authoredFlashcard(ctx context.Context, userID, id uuid.UUID) (*model.Flashcard, error) {
	f, err := s.flashcardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Flashcard", id)
	}
	if f.UserID != userID {
		if f.RoomID == nil {
			return nil, model.NewNotFoundError("Flashcard", id)
		}
		return nil, model.NewForbiddenError("only the author can change this flashcard")
	}
	return f, nil
}

// checkCategory verifies a category can hold a card in the given scope
func (s *StudyService) checkCategory(ctx context.Context, userID uuid.UUID, roomID, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	c, err := s.categoryRepo.FindByID(ctx, *categoryID)
	if err != nil {
		if isNotFound(err) {
			return model.NewValidationError("category does not exist")
		}
		return model.NewInternalError(err)
	}

	switch {
	case roomID == nil && c.RoomID == nil && c.UserID == userID:
		return nil
	case roomID != nil && c.RoomID != nil && *c.RoomID == *roomID:
		return nil
	}
	return model.NewValidationError("category does not belong to this scope")
}
