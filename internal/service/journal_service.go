package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
)

// JournalService handles a user's journal entries
type JournalService struct {
	repo      *repository.JournalRepository
	publisher Publisher
	now       func() time.Time
}

func NewJournalService(repo *repository.JournalRepository, publisher Publisher) *JournalService {
	return &JournalService{repo: repo, publisher: publisherOrNop(publisher), now: time.Now}
}

// Create adds an entry, dated today unless the request says otherwise
func (s *JournalService) Create(ctx context.Context, userID uuid.UUID, req model.CreateJournalEntryRequest) (*model.JournalEntry, error) {
	entryDate := s.now().UTC()
	if req.EntryDate != nil {
		entryDate = req.EntryDate.UTC()
	}

	e := &model.JournalEntry{
		UserID:    userID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Mood:      req.Mood,
		EntryDate: entryDate,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("create journal entry: %w", err))
	}

	publishChange(s.publisher, userID, nil, "journal_entries", model.ChangeInsert, e)
	return e, nil
}

// List returns the user's entries in [from, to), newest first
func (s *JournalService) List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.JournalEntry, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, model.NewValidationError("from must be before to")
	}
	entries, err := s.repo.List(ctx, userID, from, to)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return entries, nil
}

// Get returns one of the user's entries
func (s *JournalService) Get(ctx context.Context, userID, id uuid.UUID) (*model.JournalEntry, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Journal entry", id)
	}
	if e.UserID != userID {
		return nil, model.NewNotFoundError("Journal entry", id)
	}
	return e, nil
}

// Update edits one of the user's entries
func (s *JournalService) Update(ctx context.Context, userID, id uuid.UUID, req model.UpdateJournalEntryRequest) (*model.JournalEntry, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Mood != nil {
		updates["mood"] = *req.Mood
	}
	if req.EntryDate != nil {
		updates["entry_date"] = req.EntryDate.UTC()
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, model.NewInternalError(err)
		}
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, nil, "journal_entries", model.ChangeUpdate, updated)
	return updated, nil
}

// Delete removes one of the user's entries
func (s *JournalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return model.NewInternalError(err)
	}
	publishChange(s.publisher, userID, nil, "journal_entries", model.ChangeDelete, recordRef{ID: id})
	return nil
}
