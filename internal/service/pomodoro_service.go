package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
)

const (
	defaultSummaryDays = 7
	maxSummaryDays     = 90
	maxSessionHistory  = 100
)

// PomodoroService handles timer settings and finished sessions
type PomodoroService struct {
	repo      *repository.PomodoroRepository
	roomRepo  *repository.RoomRepository
	publisher Publisher
	now       func() time.Time
}

func NewPomodoroService(repo *repository.PomodoroRepository, roomRepo *repository.RoomRepository, publisher Publisher) *PomodoroService {
	return &PomodoroService{
		repo:      repo,
		roomRepo:  roomRepo,
		publisher: publisherOrNop(publisher),
		now:       time.Now,
	}
}

// GetSettings returns the saved settings or the defaults
func (s *PomodoroService) GetSettings(ctx context.Context, userID uuid.UUID) (*model.PomodoroSettings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return model.DefaultPomodoroSettings(userID), nil
		}
		return nil, model.NewInternalError(err)
	}
	return settings, nil
}

// UpdateSettings saves the user's timer configuration
func (s *PomodoroService) UpdateSettings(ctx context.Context, userID uuid.UUID, req model.UpdatePomodoroSettingsRequest) (*model.PomodoroSettings, error) {
	if err := validatePomodoro(req); err != nil {
		return nil, err
	}

	settings := &model.PomodoroSettings{
		UserID:                  userID,
		FocusMinutes:            req.FocusMinutes,
		ShortBreakMinutes:       req.ShortBreakMinutes,
		LongBreakMinutes:        req.LongBreakMinutes,
		SessionsBeforeLongBreak: req.SessionsBeforeLongBreak,
		AutoStart:               req.AutoStart,
	}
	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("save pomodoro settings: %w", err))
	}

	publishChange(s.publisher, userID, nil, "pomodoro_settings", model.ChangeUpdate, settings)
	return settings, nil
}

// validatePomodoro re-checks the bounds binding enforces, for callers that skip binding
func validatePomodoro(req model.UpdatePomodoroSettingsRequest) error {
	for name, v := range map[string]int{
		"focus_minutes":       req.FocusMinutes,
		"short_break_minutes": req.ShortBreakMinutes,
		"long_break_minutes":  req.LongBreakMinutes,
	} {
		if v < 1 || v > 180 {
			return model.NewValidationError(name + " must be between 1 and 180")
		}
	}
	if req.SessionsBeforeLongBreak < 1 || req.SessionsBeforeLongBreak > 12 {
		return model.NewValidationError("sessions_before_long_break must be between 1 and 12")
	}
	return nil
}

// RecordSession stores a finished timer phase
func (s *PomodoroService) RecordSession(ctx context.Context, userID uuid.UUID, req model.RecordSessionRequest) (*model.PomodoroSession, error) {
	if req.RoomID != nil {
		if err := requireMember(ctx, s.roomRepo, *req.RoomID, userID); err != nil {
			return nil, err
		}
	}
	if req.StartedAt.After(s.now().Add(time.Minute)) {
		return nil, model.NewValidationError("started_at cannot be in the future")
	}

	session := &model.PomodoroSession{
		UserID:          userID,
		RoomID:          req.RoomID,
		Kind:            req.Kind,
		StartedAt:       req.StartedAt.UTC(),
		DurationSeconds: req.DurationSeconds,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("record session: %w", err))
	}

	publishChange(s.publisher, userID, req.RoomID, "pomodoro_sessions", model.ChangeInsert, session)
	return session, nil
}

// ListSessions returns the most recent sessions
func (s *PomodoroService) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]model.PomodoroSession, error) {
	if limit <= 0 || limit > maxSessionHistory {
		limit = maxSessionHistory
	}
	sessions, err := s.repo.ListSessions(ctx, userID, limit)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return sessions, nil
}

// Summary totals focus time per UTC day over the last days days, today included
func (s *PomodoroService) Summary(ctx context.Context, userID uuid.UUID, days int) (*model.PomodoroSummary, error) {
	if days <= 0 {
		days = defaultSummaryDays
	}
	if days > maxSummaryDays {
		return nil, model.NewValidationError(fmt.Sprintf("days cannot exceed %d", maxSummaryDays))
	}

	first := startOfDay(s.now()).AddDate(0, 0, -(days - 1))
	sessions, err := s.repo.FocusSessionsSince(ctx, userID, first)
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	summary := &model.PomodoroSummary{Days: days, Daily: make([]model.PomodoroDay, days)}
	index := make(map[string]int, days)
	seconds := make([]int, days)
	for i := range summary.Daily {
		date := first.AddDate(0, 0, i).Format(calendarDayLayout)
		summary.Daily[i].Date = date
		index[date] = i
	}

	totalSeconds := 0
	for _, session := range sessions {
		i, ok := index[session.StartedAt.UTC().Format(calendarDayLayout)]
		if !ok {
			continue
		}
		seconds[i] += session.DurationSeconds
		summary.Daily[i].Sessions++
		summary.TotalSessions++
		totalSeconds += session.DurationSeconds
	}
	for i := range summary.Daily {
		summary.Daily[i].FocusMinutes = seconds[i] / 60
	}
	summary.TotalFocusMinutes = totalSeconds / 60
	return summary, nil
}
