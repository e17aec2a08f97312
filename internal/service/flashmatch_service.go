package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/observability"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/quocanhngo/focushub/pkg/grading"
	"go.opentelemetry.io/otel/attribute"
)

const (
	minRounds          = 1
	maxRounds          = 20
	minRoundSeconds    = 5
	maxRoundSeconds    = 120
	matchListLimit     = 20
	sweepBatchSize     = 50
	matchTableName     = "matches"
	defaultMatchRounds = 5
	defaultRoundSecs   = 20
)

// FlashMatchConfig tunes match defaults and grading
type FlashMatchConfig struct {
	DefaultRounds       int
	DefaultRoundSeconds int
	CorrectThreshold    float64
}

// FlashMatchService runs the multiplayer flashcard quiz. A match moves
// lobby -> in_progress -> completed; every transition is a conditional update
// so concurrent submits and the sweeper cannot advance the same round twice.
type FlashMatchService struct {
	matchRepo     *repository.MatchRepository
	cardRepo      *repository.FlashcardRepository
	categoryRepo  *repository.CategoryRepository
	roomRepo      *repository.RoomRepository
	notifications *NotificationService
	publisher     Publisher
	cfg           FlashMatchConfig

	now     func() time.Time
	shuffle func(cards []model.Flashcard)
}

func NewFlashMatchService(
	matchRepo *repository.MatchRepository,
	cardRepo *repository.FlashcardRepository,
	categoryRepo *repository.CategoryRepository,
	roomRepo *repository.RoomRepository,
	notifications *NotificationService,
	publisher Publisher,
	cfg FlashMatchConfig,
) *FlashMatchService {
	if cfg.DefaultRounds < minRounds || cfg.DefaultRounds > maxRounds {
		cfg.DefaultRounds = defaultMatchRounds
	}
	if cfg.DefaultRoundSeconds < minRoundSeconds || cfg.DefaultRoundSeconds > maxRoundSeconds {
		cfg.DefaultRoundSeconds = defaultRoundSecs
	}
	if cfg.CorrectThreshold <= 0 {
		cfg.CorrectThreshold = grading.DefaultThreshold
	}
	return &FlashMatchService{
		matchRepo:     matchRepo,
		cardRepo:      cardRepo,
		categoryRepo:  categoryRepo,
		roomRepo:      roomRepo,
		notifications: notifications,
		publisher:     publisherOrNop(publisher),
		cfg:           cfg,
		now:           time.Now,
		shuffle: func(cards []model.Flashcard) {
			rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
		},
	}
}

// ==================== Event queue ====================

type queuedEvent struct {
	userIDs []uuid.UUID
	event   *model.WSEvent
}

// matchEvents collects what a transaction wants to announce. It is flushed
// only after the transaction commits.
type matchEvents struct {
	events    []queuedEvent
	completed *model.Match
	standings []model.PlayerScore
}

func (e *matchEvents) add(userIDs []uuid.UUID, eventType string, payload interface{}) {
	e.events = append(e.events, queuedEvent{
		userIDs: userIDs,
		event:   &model.WSEvent{Type: eventType, Payload: payload},
	})
}

func (s *FlashMatchService) flush(ctx context.Context, e *matchEvents) {
	for _, q := range e.events {
		s.publisher.SendToUsers(q.userIDs, q.event)
	}
	if e.completed == nil {
		return
	}

	m := e.completed
	publishChange(s.publisher, m.HostID, m.RoomID, matchTableName, model.ChangeUpdate, m)
	if s.notifications == nil {
		return
	}
	for i, p := range e.standings {
		_, err := s.notifications.Notify(ctx, p.UserID, model.NotificationMatchCompleted,
			"FlashMatch finished",
			fmt.Sprintf("You placed #%d with %d points", i+1, p.Score),
			map[string]string{"match_id": m.ID.String()},
		)
		if err != nil {
			slog.WarnContext(ctx, "failed to notify player", "match_id", m.ID, "user_id", p.UserID, "error", err)
		}
	}
}

// ==================== Lobby ====================

// CreateMatch opens a lobby with the host as first player. Room members are
// invited when the match belongs to a room.
func (s *FlashMatchService) CreateMatch(ctx context.Context, hostID uuid.UUID, req model.CreateMatchRequest) (*model.MatchView, error) {
	rounds := req.TotalRounds
	if rounds == 0 {
		rounds = s.cfg.DefaultRounds
	}
	if rounds < minRounds || rounds > maxRounds {
		return nil, model.NewValidationError(fmt.Sprintf("total_rounds must be between %d and %d", minRounds, maxRounds))
	}
	seconds := req.RoundSeconds
	if seconds == 0 {
		seconds = s.cfg.DefaultRoundSeconds
	}
	if seconds < minRoundSeconds || seconds > maxRoundSeconds {
		return nil, model.NewValidationError(fmt.Sprintf("round_seconds must be between %d and %d", minRoundSeconds, maxRoundSeconds))
	}

	if req.RoomID != nil {
		if err := requireMember(ctx, s.roomRepo, *req.RoomID, hostID); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.checkDeckCategory(ctx, hostID, req.RoomID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	m := &model.Match{
		RoomID:       req.RoomID,
		HostID:       hostID,
		CategoryID:   req.CategoryID,
		Status:       model.MatchStatusLobby,
		TotalRounds:  rounds,
		RoundSeconds: seconds,
		Players:      []model.MatchPlayer{{UserID: hostID}},
	}
	if err := s.matchRepo.Create(ctx, m); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("create match: %w", err))
	}
	observability.FlashMatchEvents.WithLabelValues(observability.MatchCreated).Inc()

	created, err := s.matchRepo.FindByID(ctx, m.ID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	publishChange(s.publisher, hostID, created.RoomID, matchTableName, model.ChangeInsert, created)

	if req.RoomID != nil && s.notifications != nil {
		memberIDs, err := s.roomRepo.GetMemberIDs(ctx, *req.RoomID)
		if err != nil {
			slog.WarnContext(ctx, "failed to load room members for match invite", "match_id", m.ID, "error", err)
		} else {
			invitees := make([]uuid.UUID, 0, len(memberIDs))
			for _, id := range memberIDs {
				if id != hostID {
					invitees = append(invitees, id)
				}
			}
			s.notifications.NotifyMany(ctx, invitees, model.NotificationMatchInvite,
				"FlashMatch invitation",
				"A new FlashMatch is waiting for players",
				map[string]string{"match_id": m.ID.String(), "room_id": req.RoomID.String()},
			)
		}
	}

	return s.view(ctx, created)
}

// checkDeckCategory accepts the host's personal categories and, for room
// matches, the room's categories
func (s *FlashMatchService) checkDeckCategory(ctx context.Context, hostID uuid.UUID, roomID *uuid.UUID, categoryID uuid.UUID) error {
	c, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if isNotFound(err) {
			return model.NewValidationError("category does not exist")
		}
		return model.NewInternalError(err)
	}
	if c.RoomID == nil && c.UserID == hostID {
		return nil
	}
	if roomID != nil && c.RoomID != nil && *c.RoomID == *roomID {
		return nil
	}
	return model.NewValidationError("category cannot be used for this match")
}

// JoinMatch adds the caller to a lobby. Joining twice is a no-op.
func (s *FlashMatchService) JoinMatch(ctx context.Context, matchID, userID uuid.UUID) (*model.MatchView, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, lookupError(err, "Match", matchID)
	}
	if m.RoomID != nil {
		if err := requireMember(ctx, s.roomRepo, *m.RoomID, userID); err != nil {
			return nil, err
		}
	}
	if playerIndex(m.Players, userID) >= 0 {
		return s.view(ctx, m)
	}
	if m.Status != model.MatchStatusLobby {
		return nil, model.NewConflictError("match has already started")
	}

	if err := s.matchRepo.AddPlayer(ctx, &model.MatchPlayer{MatchID: matchID, UserID: userID}); err != nil && !isDuplicate(err) {
		return nil, model.NewInternalError(fmt.Errorf("add player: %w", err))
	}
	return s.lobbyChanged(ctx, matchID)
}

// LeaveMatch removes the caller from a lobby. The host leaving cancels the match.
func (s *FlashMatchService) LeaveMatch(ctx context.Context, matchID, userID uuid.UUID) error {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return lookupError(err, "Match", matchID)
	}
	if playerIndex(m.Players, userID) < 0 {
		return model.NewForbiddenError("you are not in this match")
	}
	if m.Status != model.MatchStatusLobby {
		return model.NewConflictError("cannot leave a match that has started")
	}

	if m.HostID == userID {
		deleted, err := s.matchRepo.DeleteLobby(ctx, matchID)
		if err != nil {
			return model.NewInternalError(err)
		}
		if !deleted {
			return model.NewConflictError("cannot leave a match that has started")
		}
		s.publisher.SendToUsers(playerIDs(m.Players), &model.WSEvent{
			Type:    model.WSEventMatchCancelled,
			Payload: recordRef{ID: matchID},
		})
		publishChange(s.publisher, userID, m.RoomID, matchTableName, model.ChangeDelete, recordRef{ID: matchID})
		return nil
	}

	if err := s.matchRepo.RemovePlayer(ctx, matchID, userID); err != nil {
		return model.NewInternalError(err)
	}
	s.publisher.SendToUser(userID, &model.WSEvent{Type: model.WSEventMatchUpdated, Payload: recordRef{ID: matchID}})
	_, err = s.lobbyChanged(ctx, matchID)
	return err
}

func (s *FlashMatchService) lobbyChanged(ctx context.Context, matchID uuid.UUID) (*model.MatchView, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, lookupError(err, "Match", matchID)
	}
	v, err := s.view(ctx, m)
	if err != nil {
		return nil, err
	}
	s.publisher.SendToUsers(playerIDs(m.Players), &model.WSEvent{Type: model.WSEventMatchUpdated, Payload: v})
	return v, nil
}

// ==================== Start ====================

// StartMatch draws the deck, creates every round and opens round 1. Host only.
func (s *FlashMatchService) StartMatch(ctx context.Context, matchID, userID uuid.UUID) (view *model.MatchView, err error) {
	span, ctx := observability.StartSpan(ctx, "flashmatch.start", attribute.String("match.id", matchID.String()))
	defer func() { span.End(err) }()

	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, lookupError(err, "Match", matchID)
	}
	if m.HostID != userID {
		return nil, model.NewForbiddenError("only the host can start the match")
	}
	if m.Status != model.MatchStatusLobby {
		return nil, model.NewConflictError("match has already started")
	}

	cards, err := s.cardRepo.ListForMatch(ctx, m.HostID, m.RoomID, m.CategoryID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	if len(cards) == 0 {
		return nil, model.NewValidationError("no flashcards available for this match")
	}
	s.shuffle(cards)
	total := min(m.TotalRounds, len(cards))

	now := s.now()
	rounds := make([]model.Round, total)
	for i := range rounds {
		cardID := cards[i].ID
		rounds[i] = model.Round{
			MatchID:     matchID,
			Number:      i + 1,
			FlashcardID: &cardID,
			Question:    cards[i].Front,
			Answer:      cards[i].Back,
			Status:      model.RoundStatusPending,
		}
	}

	events := &matchEvents{}
	err = s.matchRepo.Transaction(ctx, func(tx *repository.MatchRepository) error {
		ok, err := tx.Start(ctx, matchID, total, now)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewConflictError("match has already started")
		}
		if err := tx.CreateRounds(ctx, rounds); err != nil {
			return err
		}
		endsAt := now.Add(time.Duration(m.RoundSeconds) * time.Second)
		if _, err := tx.ActivateRound(ctx, rounds[0].ID, now, endsAt); err != nil {
			return err
		}
		events.add(playerIDs(m.Players), model.WSEventRoundStarted, model.RoundStartedEvent{
			MatchID:  matchID,
			Round:    1,
			Total:    total,
			Question: rounds[0].Question,
			EndsAt:   endsAt,
		})
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	observability.FlashMatchEvents.WithLabelValues(observability.MatchStarted).Inc()

	started, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	view, err = s.view(ctx, started)
	if err != nil {
		return nil, err
	}
	events.add(playerIDs(started.Players), model.WSEventMatchUpdated, view)
	s.flush(ctx, events)
	publishChange(s.publisher, m.HostID, m.RoomID, matchTableName, model.ChangeUpdate, started)
	return view, nil
}

// ==================== Answers ====================

// SubmitAnswer grades a player's answer to the current round
func (s *FlashMatchService) SubmitAnswer(ctx context.Context, matchID, userID uuid.UUID, req model.SubmitAnswerRequest) (*model.AnswerResult, error) {
	return s.respond(ctx, matchID, userID, req.Round, req.Answer, false)
}

// PassRound records a zero-point pass for the current round
func (s *FlashMatchService) PassRound(ctx context.Context, matchID, userID uuid.UUID, req model.PassRoundRequest) (*model.AnswerResult, error) {
	return s.respond(ctx, matchID, userID, req.Round, "", true)
}

func (s *FlashMatchService) respond(ctx context.Context, matchID, userID uuid.UUID, number int, text string, passed bool) (result *model.AnswerResult, err error) {
	span, ctx := observability.StartSpan(ctx, "flashmatch.answer",
		attribute.String("match.id", matchID.String()),
		attribute.Int("round", number),
		attribute.Bool("passed", passed),
	)
	defer func() { span.End(err) }()

	now := s.now()
	events := &matchEvents{}
	result = &model.AnswerResult{}

	err = s.matchRepo.Transaction(ctx, func(tx *repository.MatchRepository) error {
		m, err := tx.FindByIDForUpdate(ctx, matchID)
		if err != nil {
			return lookupError(err, "Match", matchID)
		}
		if playerIndex(m.Players, userID) < 0 {
			return model.NewForbiddenError("you are not in this match")
		}
		if m.Status != model.MatchStatusInProgress {
			return model.NewConflictError("match is not in progress")
		}
		if number != m.CurrentRound {
			return model.NewConflictError(fmt.Sprintf("round %d is not the current round", number))
		}

		round, err := tx.GetRound(ctx, matchID, number)
		if err != nil {
			return lookupError(err, "Round", number)
		}
		if !round.IsOpen(now) {
			return model.NewConflictError("round is closed")
		}
		answered, err := tx.HasAnswered(ctx, round.ID, userID)
		if err != nil {
			return err
		}
		if answered {
			return model.NewConflictError("you already answered this round")
		}

		answer := &model.Answer{RoundID: round.ID, MatchID: matchID, UserID: userID, Passed: passed}
		if !passed {
			grade := grading.Score(text, round.Answer, s.cfg.CorrectThreshold)
			answer.Text = text
			answer.Accuracy = grade.Accuracy
			answer.Correct = grade.Correct
			answer.Points = grade.Points
			span.AddAttributes(
				attribute.Float64("answer.accuracy", grade.Accuracy),
				attribute.Int("answer.points", grade.Points),
			)
		}
		if err := tx.CreateAnswer(ctx, answer); err != nil {
			if isDuplicate(err) {
				return model.NewConflictError("you already answered this round")
			}
			return err
		}
		if answer.Points > 0 {
			if err := tx.AddScore(ctx, matchID, userID, answer.Points); err != nil {
				return err
			}
		}
		observability.FlashMatchEvents.WithLabelValues(observability.AnswerGraded).Inc()

		count, err := tx.CountAnswers(ctx, round.ID)
		if err != nil {
			return err
		}
		ids := playerIDs(m.Players)
		events.add(ids, model.WSEventAnswerSubmitted, model.AnswerSubmittedEvent{
			MatchID:  matchID,
			Round:    number,
			UserID:   userID,
			Passed:   passed,
			Answered: int(count),
			Players:  len(ids),
		})

		result.Answer = *answer
		result.CorrectAnswer = round.Answer

		if int(count) < len(ids) {
			return nil
		}
		advanced, completed, err := s.advance(ctx, tx, m, round, model.RoundStatusCompleted, events)
		if err != nil {
			return err
		}
		result.RoundCompleted = advanced
		result.MatchCompleted = completed
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.flush(ctx, events)
	return result, nil
}

// advance closes round and either opens the next one or completes the match.
// It reports false when another caller already moved the match on.
func (s *FlashMatchService) advance(ctx context.Context, tx *repository.MatchRepository, m *model.Match, round *model.Round, closeAs model.RoundStatus, events *matchEvents) (advanced, completed bool, err error) {
	closed, err := tx.CloseRound(ctx, round.ID, closeAs)
	if err != nil || !closed {
		return false, false, err
	}
	if closeAs == model.RoundStatusExpired {
		observability.FlashMatchEvents.WithLabelValues(observability.RoundExpired).Inc()
	} else {
		observability.FlashMatchEvents.WithLabelValues(observability.RoundCompleted).Inc()
	}

	now := s.now()
	ids := playerIDs(m.Players)

	if m.CurrentRound >= m.TotalRounds {
		players, err := tx.ListPlayers(ctx, m.ID)
		if err != nil {
			return false, false, err
		}
		var winnerID *uuid.UUID
		if len(players) > 0 {
			id := players[0].UserID
			winnerID = &id
		}
		ok, err := tx.Complete(ctx, m.ID, m.CurrentRound, winnerID, now)
		if err != nil || !ok {
			return false, false, err
		}
		observability.FlashMatchEvents.WithLabelValues(observability.MatchCompleted).Inc()

		standings := scoreboard(players)
		done := *m
		done.Players = nil
		done.Status = model.MatchStatusCompleted
		done.CompletedAt = &now
		done.WinnerID = winnerID

		events.add(ids, model.WSEventMatchCompleted, model.MatchCompletedEvent{
			MatchID:  m.ID,
			WinnerID: winnerID,
			Players:  standings,
		})
		events.completed = &done
		events.standings = standings
		return true, true, nil
	}

	ok, err := tx.AdvanceRound(ctx, m.ID, m.CurrentRound)
	if err != nil || !ok {
		return false, false, err
	}
	next, err := tx.GetRound(ctx, m.ID, m.CurrentRound+1)
	if err != nil {
		return false, false, err
	}
	endsAt := now.Add(time.Duration(m.RoundSeconds) * time.Second)
	if _, err := tx.ActivateRound(ctx, next.ID, now, endsAt); err != nil {
		return false, false, err
	}

	events.add(ids, model.WSEventRoundStarted, model.RoundStartedEvent{
		MatchID:  m.ID,
		Round:    next.Number,
		Total:    m.TotalRounds,
		Question: next.Question,
		EndsAt:   endsAt,
	})
	return true, false, nil
}

// ==================== Timers ====================

// ExpireOverdueRounds closes active rounds past their deadline and advances
// their matches. It returns how many rounds it expired.
func (s *FlashMatchService) ExpireOverdueRounds(ctx context.Context) (int, error) {
	rounds, err := s.matchRepo.ListExpiredRounds(ctx, s.now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range rounds {
		round := rounds[i]
		events := &matchEvents{}
		var advanced bool
		err := s.matchRepo.Transaction(ctx, func(tx *repository.MatchRepository) error {
			m, err := tx.FindByIDForUpdate(ctx, round.MatchID)
			if err != nil {
				return err
			}
			if m.Status != model.MatchStatusInProgress || m.CurrentRound != round.Number {
				// stale round left behind by an interrupted advance
				advanced, err = tx.CloseRound(ctx, round.ID, model.RoundStatusExpired)
				return err
			}
			advanced, _, err = s.advance(ctx, tx, m, &round, model.RoundStatusExpired, events)
			return err
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to expire round", "match_id", round.MatchID, "round", round.Number, "error", err)
			continue
		}
		if advanced {
			expired++
			s.flush(ctx, events)
		}
	}
	return expired, nil
}

// RunRoundSweeper expires overdue rounds every interval until ctx is done
func (s *FlashMatchService) RunRoundSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("flashmatch round sweeper started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.ExpireOverdueRounds(ctx)
			if err != nil {
				slog.Error("round sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("expired flashmatch rounds", "count", n)
			}
		}
	}
}

// ==================== Views ====================

// GetMatch returns the scoreboard. Players and members of the match's room may view it.
func (s *FlashMatchService) GetMatch(ctx context.Context, matchID, userID uuid.UUID) (*model.MatchView, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, lookupError(err, "Match", matchID)
	}
	if err := s.canView(ctx, m, userID); err != nil {
		return nil, err
	}
	return s.view(ctx, m)
}

// ListMatches returns a room's matches, or the caller's own when roomID is nil
func (s *FlashMatchService) ListMatches(ctx context.Context, userID uuid.UUID, roomID *uuid.UUID) ([]model.Match, error) {
	if roomID != nil {
		if err := requireMember(ctx, s.roomRepo, *roomID, userID); err != nil {
			return nil, err
		}
		matches, err := s.matchRepo.ListByRoom(ctx, *roomID, matchListLimit)
		if err != nil {
			return nil, model.NewInternalError(err)
		}
		return matches, nil
	}
	matches, err := s.matchRepo.ListForUser(ctx, userID, matchListLimit)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return matches, nil
}

// RoundResults returns every closed round with all answers
func (s *FlashMatchService) RoundResults(ctx context.Context, matchID, userID uuid.UUID) ([]model.RoundResult, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, lookupError(err, "Match", matchID)
	}
	if err := s.canView(ctx, m, userID); err != nil {
		return nil, err
	}

	rounds, err := s.matchRepo.ListRounds(ctx, matchID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	results := []model.RoundResult{}
	for _, r := range rounds {
		if r.Status != model.RoundStatusCompleted && r.Status != model.RoundStatusExpired {
			continue
		}
		answers, err := s.matchRepo.ListAnswers(ctx, r.ID)
		if err != nil {
			return nil, model.NewInternalError(err)
		}
		results = append(results, model.RoundResult{Round: r, Answers: answers})
	}
	return results, nil
}

func (s *FlashMatchService) canView(ctx context.Context, m *model.Match, userID uuid.UUID) error {
	if playerIndex(m.Players, userID) >= 0 {
		return nil
	}
	if m.RoomID != nil {
		return requireMember(ctx, s.roomRepo, *m.RoomID, userID)
	}
	return model.NewForbiddenError("you are not in this match")
}

// view builds the scoreboard, hiding the current answer while the round is open
func (s *FlashMatchService) view(ctx context.Context, m *model.Match) (*model.MatchView, error) {
	v := &model.MatchView{Match: *m, Players: scoreboard(m.Players)}
	v.Match.Players = nil

	if m.Status != model.MatchStatusInProgress || m.CurrentRound == 0 {
		return v, nil
	}
	round, err := s.matchRepo.GetRound(ctx, m.ID, m.CurrentRound)
	if err != nil {
		return nil, lookupError(err, "Round", m.CurrentRound)
	}
	if round.Status == model.RoundStatusActive || round.Status == model.RoundStatusPending {
		round.Answer = ""
	}
	count, err := s.matchRepo.CountAnswers(ctx, round.ID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	v.CurrentRound = round
	v.Answered = int(count)
	return v, nil
}

func scoreboard(players []model.MatchPlayer) []model.PlayerScore {
	out := make([]model.PlayerScore, 0, len(players))
	for i := range players {
		p := players[i]
		out = append(out, model.PlayerScore{
			UserID:   p.UserID,
			User:     p.User.Public(),
			Score:    p.Score,
			JoinedAt: p.JoinedAt,
		})
	}
	return out
}

func playerIDs(players []model.MatchPlayer) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.UserID)
	}
	return ids
}

func playerIndex(players []model.MatchPlayer, userID uuid.UUID) int {
	for i, p := range players {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}
