package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/observability"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/quocanhngo/focushub/pkg/sounds"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Import kinds, also used as metric labels and change-feed table names
const (
	importCategories  = "categories"
	importFlashcards  = "flashcards"
	importJournal     = "journal_entries"
	importGoals       = "goals"
	importTasks       = "tasks"
	importPomodoro    = "pomodoro_settings"
	importPreferences = "user_preferences"
)

// MigrationService copies guest-mode data into an account. Rows that already
// match something stored are skipped, so re-running an import is a no-op.
type MigrationService struct {
	db        *gorm.DB
	catalog   *sounds.Catalog
	publisher Publisher
	now       func() time.Time
}

func NewMigrationService(db *gorm.DB, catalog *sounds.Catalog, publisher Publisher) *MigrationService {
	return &MigrationService{db: db, catalog: catalog, publisher: publisherOrNop(publisher), now: time.Now}
}

// Import inserts whatever the account is missing. Each kind commits in its
// own transaction; kinds that do not reference each other run concurrently.
func (s *MigrationService) Import(ctx context.Context, userID uuid.UUID, req model.ImportRequest) (result *model.ImportResult, err error) {
	span, ctx := observability.StartSpan(ctx, "migration.import")
	defer func() { span.End(err) }()

	result = &model.ImportResult{}
	var categoryIDs, goalIDs map[string]uuid.UUID

	// categories and goals first: flashcards and tasks point at them
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, count, err := s.importCategories(gctx, userID, req.Categories)
		categoryIDs, result.Categories = ids, count
		return err
	})
	g.Go(func() error {
		ids, count, err := s.importGoals(gctx, userID, req.Goals)
		goalIDs, result.Goals = ids, count
		return err
	})
	g.Go(func() error {
		count, err := s.importJournal(gctx, userID, req.JournalEntries)
		result.JournalEntries = count
		return err
	})
	g.Go(func() error {
		count, err := s.importPomodoro(gctx, userID, req.PomodoroSettings)
		result.PomodoroSettings = count
		return err
	})
	g.Go(func() error {
		count, err := s.importPreferences(gctx, userID, req.Preferences)
		result.Preferences = count
		return err
	})
	if err := g.Wait(); err != nil {
		s.announce(userID, result)
		return nil, asAppError(err)
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.importFlashcards(gctx, userID, req.Flashcards, categoryIDs)
		result.Flashcards = count
		return err
	})
	g.Go(func() error {
		count, err := s.importTasks(gctx, userID, req.Tasks, goalIDs)
		result.Tasks = count
		return err
	})
	if err := g.Wait(); err != nil {
		s.announce(userID, result)
		return nil, asAppError(err)
	}

	s.announce(userID, result)
	slog.InfoContext(ctx, "guest data imported", "user_id", userID,
		"categories", result.Categories.Imported,
		"flashcards", result.Flashcards.Imported,
		"journal_entries", result.JournalEntries.Imported,
		"goals", result.Goals.Imported,
		"tasks", result.Tasks.Imported,
	)
	return result, nil
}

// announce records metrics and tells the user's clients which tables to refetch
func (s *MigrationService) announce(userID uuid.UUID, result *model.ImportResult) {
	for kind, count := range map[string]model.ImportCount{
		importCategories:  result.Categories,
		importFlashcards:  result.Flashcards,
		importJournal:     result.JournalEntries,
		importGoals:       result.Goals,
		importTasks:       result.Tasks,
		importPomodoro:    result.PomodoroSettings,
		importPreferences: result.Preferences,
	} {
		if count.Imported == 0 {
			continue
		}
		observability.ImportedRecords.WithLabelValues(kind).Add(float64(count.Imported))
		publishChange(s.publisher, userID, nil, kind, model.ChangeInsert, count)
	}
}

func (s *MigrationService) importCategories(ctx context.Context, userID uuid.UUID, items []model.GuestCategory) (map[string]uuid.UUID, model.ImportCount, error) {
	ids := make(map[string]uuid.UUID, len(items))
	var count model.ImportCount
	if len(items) == 0 {
		return ids, count, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewCategoryRepository(tx)
		for _, item := range items {
			name := strings.TrimSpace(item.Name)
			if name == "" {
				count.Skipped++
				continue
			}
			existing, err := repo.FindPersonalByName(ctx, userID, name)
			if err == nil {
				remember(ids, item.LocalID, existing.ID)
				count.Skipped++
				continue
			}
			if !isNotFound(err) {
				return err
			}

			c := &model.Category{UserID: userID, Name: name, Color: item.Color}
			if err := repo.Create(ctx, c); err != nil {
				return fmt.Errorf("import category %q: %w", name, err)
			}
			remember(ids, item.LocalID, c.ID)
			count.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, model.ImportCount{}, err
	}
	return ids, count, nil
}

func (s *MigrationService) importGoals(ctx context.Context, userID uuid.UUID, items []model.GuestGoal) (map[string]uuid.UUID, model.ImportCount, error) {
	ids := make(map[string]uuid.UUID, len(items))
	var count model.ImportCount
	if len(items) == 0 {
		return ids, count, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPlannerRepository(tx)
		for _, item := range items {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				count.Skipped++
				continue
			}
			existing, err := repo.FindGoalByTitle(ctx, userID, title)
			if err == nil {
				remember(ids, item.LocalID, existing.ID)
				count.Skipped++
				continue
			}
			if !isNotFound(err) {
				return err
			}

			progress := clampProgress(item.Progress)
			if item.Completed {
				progress = goalCompleteAtPerc
			}
			goal := &model.Goal{
				UserID:      userID,
				Title:       title,
				Description: item.Description,
				TargetDate:  utcPtr(item.TargetDate),
				Progress:    progress,
				Completed:   progress == goalCompleteAtPerc,
			}
			if err := repo.CreateGoal(ctx, goal); err != nil {
				return fmt.Errorf("import goal %q: %w", title, err)
			}
			remember(ids, item.LocalID, goal.ID)
			count.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, model.ImportCount{}, err
	}
	return ids, count, nil
}

func (s *MigrationService) importJournal(ctx context.Context, userID uuid.UUID, items []model.GuestJournalEntry) (model.ImportCount, error) {
	var count model.ImportCount
	if len(items) == 0 {
		return count, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewJournalRepository(tx)
		for _, item := range items {
			title := strings.TrimSpace(item.Title)
			if title == "" || item.EntryDate.IsZero() {
				count.Skipped++
				continue
			}
			exists, err := repo.ExistsOnDay(ctx, userID, item.EntryDate, title)
			if err != nil {
				return err
			}
			if exists {
				count.Skipped++
				continue
			}

			entry := &model.JournalEntry{
				UserID:    userID,
				Title:     title,
				Content:   item.Content,
				Mood:      item.Mood,
				EntryDate: item.EntryDate.UTC(),
			}
			if err := repo.Create(ctx, entry); err != nil {
				return fmt.Errorf("import journal entry %q: %w", title, err)
			}
			count.Imported++
		}
		return nil
	})
	if err != nil {
		return model.ImportCount{}, err
	}
	return count, nil
}

func (s *MigrationService) importFlashcards(ctx context.Context, userID uuid.UUID, items []model.GuestFlashcard, categoryIDs map[string]uuid.UUID) (model.ImportCount, error) {
	var count model.ImportCount
	if len(items) == 0 {
		return count, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewFlashcardRepository(tx)
		for _, item := range items {
			front, back := strings.TrimSpace(item.Front), strings.TrimSpace(item.Back)
			if front == "" || back == "" {
				count.Skipped++
				continue
			}
			exists, err := repo.ExistsPersonal(ctx, userID, front, back)
			if err != nil {
				return err
			}
			if exists {
				count.Skipped++
				continue
			}

			card := &model.Flashcard{
				UserID:         userID,
				Front:          front,
				Back:           back,
				TimesReviewed:  max(item.TimesReviewed, 0),
				LastReviewedAt: utcPtr(item.LastReviewedAt),
				Mastered:       item.Mastered,
			}
			if id, ok := categoryIDs[item.CategoryLocalID]; ok && item.CategoryLocalID != "" {
				card.CategoryID = &id
			}
			if err := repo.Create(ctx, card); err != nil {
				return fmt.Errorf("import flashcard: %w", err)
			}
			count.Imported++
		}
		return nil
	})
	if err != nil {
		return model.ImportCount{}, err
	}
	return count, nil
}

func (s *MigrationService) importTasks(ctx context.Context, userID uuid.UUID, items []model.GuestTask, goalIDs map[string]uuid.UUID) (model.ImportCount, error) {
	var count model.ImportCount
	if len(items) == 0 {
		return count, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewPlannerRepository(tx)
		for _, item := range items {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				count.Skipped++
				continue
			}
			dueAt := utcPtr(item.DueAt)
			exists, err := repo.TaskExists(ctx, userID, title, dueAt)
			if err != nil {
				return err
			}
			if exists {
				count.Skipped++
				continue
			}

			task := &model.Task{
				UserID:    userID,
				Title:     title,
				Notes:     item.Notes,
				DueAt:     dueAt,
				Completed: item.Completed,
			}
			if item.Completed {
				now := s.now().UTC()
				task.CompletedAt = &now
			}
			if id, ok := goalIDs[item.GoalLocalID]; ok && item.GoalLocalID != "" {
				task.GoalID = &id
			}
			if err := repo.CreateTask(ctx, task); err != nil {
				return fmt.Errorf("import task %q: %w", title, err)
			}
			count.Imported++
		}
		return nil
	})
	if err != nil {
		return model.ImportCount{}, err
	}
	return count, nil
}

func (s *MigrationService) importPomodoro(ctx context.Context, userID uuid.UUID, item *model.UpdatePomodoroSettingsRequest) (model.ImportCount, error) {
	var count model.ImportCount
	if item == nil {
		return count, nil
	}
	if err := validatePomodoro(*item); err != nil {
		count.Skipped++
		return count, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := repository.NewPomodoroRepository(tx).CreateSettingsIfAbsent(ctx, &model.PomodoroSettings{
			UserID:                  userID,
			FocusMinutes:            item.FocusMinutes,
			ShortBreakMinutes:       item.ShortBreakMinutes,
			LongBreakMinutes:        item.LongBreakMinutes,
			SessionsBeforeLongBreak: item.SessionsBeforeLongBreak,
			AutoStart:               item.AutoStart,
		})
		if err != nil {
			return fmt.Errorf("import pomodoro settings: %w", err)
		}
		if created {
			count.Imported++
		} else {
			count.Skipped++
		}
		return nil
	})
	if err != nil {
		return model.ImportCount{}, err
	}
	return count, nil
}

func (s *MigrationService) importPreferences(ctx context.Context, userID uuid.UUID, item *model.GuestPreferences) (model.ImportCount, error) {
	var count model.ImportCount
	if item == nil {
		return count, nil
	}

	prefs := model.DefaultPreferences(userID)
	if model.ValidTheme(item.Theme) {
		prefs.Theme = item.Theme
	}
	if item.AmbientSound != "" && s.catalog != nil && s.catalog.Has(item.AmbientSound) {
		prefs.AmbientSound = item.AmbientSound
	}
	if v := item.AmbientVolume; v != nil && *v >= 0 && *v <= 100 {
		prefs.AmbientVolume = *v
	}
	if len(item.Layout) > 0 && json.Valid(item.Layout) {
		prefs.Layout = datatypes.JSON(item.Layout)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := repository.NewPreferencesRepository(tx).CreateIfAbsent(ctx, prefs)
		if err != nil {
			return fmt.Errorf("import preferences: %w", err)
		}
		if created {
			count.Imported++
		} else {
			count.Skipped++
		}
		return nil
	})
	if err != nil {
		return model.ImportCount{}, err
	}
	return count, nil
}

func remember(ids map[string]uuid.UUID, localID string, id uuid.UUID) {
	if localID != "" {
		ids[localID] = id
	}
}
