package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type flashMatchFixture struct {
	db        *gorm.DB
	svc       *FlashMatchService
	matches   *repository.MatchRepository
	publisher *recordingPublisher
	host      *model.User
	guest     *model.User
	clock     time.Time
}

func newFlashMatchFixture(t *testing.T, cards int) *flashMatchFixture {
	t.Helper()
	db := setupTestDB(t)
	f := &flashMatchFixture{
		db:        db,
		matches:   repository.NewMatchRepository(db),
		publisher: &recordingPublisher{},
		host:      createUser(t, db, "host"),
		guest:     createUser(t, db, "guest"),
		clock:     time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}

	cardRepo := repository.NewFlashcardRepository(db)
	for i := 0; i < cards; i++ {
		require.NoError(t, cardRepo.Create(context.Background(), &model.Flashcard{
			UserID: f.host.ID,
			Front:  "capital of " + []string{"France", "Italy", "Spain", "Japan"}[i%4],
			Back:   []string{"Paris", "Rome", "Madrid", "Tokyo"}[i%4],
		}))
	}

	notifications := NewNotificationService(repository.NewNotificationRepository(db), f.publisher, nil)
	f.svc = NewFlashMatchService(
		f.matches,
		cardRepo,
		repository.NewCategoryRepository(db),
		repository.NewRoomRepository(db),
		notifications,
		f.publisher,
		FlashMatchConfig{},
	)
	f.svc.now = func() time.Time { return f.clock }
	f.svc.shuffle = func([]model.Flashcard) {}
	return f
}

// startWithGuest creates a lobby, lets the guest join and starts it
func (f *flashMatchFixture) startWithGuest(t *testing.T, rounds, seconds int) *model.MatchView {
	t.Helper()
	ctx := context.Background()

	v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{TotalRounds: rounds, RoundSeconds: seconds})
	require.NoError(t, err)
	_, err = f.svc.JoinMatch(ctx, v.Match.ID, f.guest.ID)
	require.NoError(t, err)

	started, err := f.svc.StartMatch(ctx, v.Match.ID, f.host.ID)
	require.NoError(t, err)
	return started
}

func (f *flashMatchFixture) answerFor(t *testing.T, v *model.MatchView, number int) string {
	t.Helper()
	round, err := f.matches.GetRound(context.Background(), v.Match.ID, number)
	require.NoError(t, err)
	return round.Answer
}

func TestFlashMatchLobby(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidatesSettings", func(t *testing.T) {
		f := newFlashMatchFixture(t, 1)
		_, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{TotalRounds: 21})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))

		_, err = f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{RoundSeconds: 2})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		f := newFlashMatchFixture(t, 1)
		v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{})
		require.NoError(t, err)
		assert.Equal(t, defaultMatchRounds, v.Match.TotalRounds)
		assert.Equal(t, defaultRoundSecs, v.Match.RoundSeconds)
		assert.Equal(t, model.MatchStatusLobby, v.Match.Status)
		require.Len(t, v.Players, 1)
		assert.Equal(t, f.host.ID, v.Players[0].UserID)
	})

	t.Run("JoinTwiceIsNoop", func(t *testing.T) {
		f := newFlashMatchFixture(t, 1)
		v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{})
		require.NoError(t, err)

		_, err = f.svc.JoinMatch(ctx, v.Match.ID, f.guest.ID)
		require.NoError(t, err)
		again, err := f.svc.JoinMatch(ctx, v.Match.ID, f.guest.ID)
		require.NoError(t, err)
		assert.Len(t, again.Players, 2)
	})

	t.Run("OnlyHostStarts", func(t *testing.T) {
		f := newFlashMatchFixture(t, 2)
		v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{})
		require.NoError(t, err)
		_, err = f.svc.JoinMatch(ctx, v.Match.ID, f.guest.ID)
		require.NoError(t, err)

		_, err = f.svc.StartMatch(ctx, v.Match.ID, f.guest.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))
	})

	t.Run("EmptyDeckRejected", func(t *testing.T) {
		f := newFlashMatchFixture(t, 0)
		v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{})
		require.NoError(t, err)

		_, err = f.svc.StartMatch(ctx, v.Match.ID, f.host.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeValidation))
	})

	t.Run("HostLeavingCancels", func(t *testing.T) {
		f := newFlashMatchFixture(t, 1)
		v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{})
		require.NoError(t, err)
		_, err = f.svc.JoinMatch(ctx, v.Match.ID, f.guest.ID)
		require.NoError(t, err)

		require.NoError(t, f.svc.LeaveMatch(ctx, v.Match.ID, f.host.ID))
		_, err = f.matches.FindByID(ctx, v.Match.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NotEmpty(t, f.publisher.ofType(model.WSEventMatchCancelled))
	})

	t.Run("CannotJoinStartedMatch", func(t *testing.T) {
		f := newFlashMatchFixture(t, 2)
		v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{TotalRounds: 2})
		require.NoError(t, err)
		_, err = f.svc.StartMatch(ctx, v.Match.ID, f.host.ID)
		require.NoError(t, err)

		_, err = f.svc.JoinMatch(ctx, v.Match.ID, f.guest.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeConflict))
	})
}

func TestFlashMatchRounds(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundsCappedByDeck", func(t *testing.T) {
		f := newFlashMatchFixture(t, 2)
		v := f.startWithGuest(t, 5, 30)
		assert.Equal(t, 2, v.Match.TotalRounds)
		assert.Equal(t, 1, v.Match.CurrentRound)
		require.NotNil(t, v.CurrentRound)
		assert.Empty(t, v.CurrentRound.Answer, "answer hidden while the round is active")
		assert.Len(t, f.publisher.ofType(model.WSEventRoundStarted), 1)
	})

	t.Run("FullGame", func(t *testing.T) {
		f := newFlashMatchFixture(t, 2)
		v := f.startWithGuest(t, 2, 30)
		id := v.Match.ID

		first := f.answerFor(t, v, 1)
		res, err := f.svc.SubmitAnswer(ctx, id, f.host.ID, model.SubmitAnswerRequest{Round: 1, Answer: "  " + first + " "})
		require.NoError(t, err)
		assert.True(t, res.Answer.Correct)
		assert.Equal(t, 100, res.Answer.Points)
		assert.False(t, res.RoundCompleted)

		_, err = f.svc.SubmitAnswer(ctx, id, f.host.ID, model.SubmitAnswerRequest{Round: 1, Answer: first})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeConflict), "second answer rejected")

		_, err = f.svc.SubmitAnswer(ctx, id, f.guest.ID, model.SubmitAnswerRequest{Round: 2, Answer: "x"})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeConflict), "future round rejected")

		res, err = f.svc.PassRound(ctx, id, f.guest.ID, model.PassRoundRequest{Round: 1})
		require.NoError(t, err)
		assert.True(t, res.Answer.Passed)
		assert.Zero(t, res.Answer.Points)
		assert.True(t, res.RoundCompleted)
		assert.False(t, res.MatchCompleted)

		m, err := f.matches.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 2, m.CurrentRound)

		_, err = f.svc.SubmitAnswer(ctx, id, f.guest.ID, model.SubmitAnswerRequest{Round: 1, Answer: first})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeConflict), "closed round rejected")

		// guest catches up, so the scores tie and the earlier joiner wins
		second := f.answerFor(t, v, 2)
		_, err = f.svc.PassRound(ctx, id, f.host.ID, model.PassRoundRequest{Round: 2})
		require.NoError(t, err)
		res, err = f.svc.SubmitAnswer(ctx, id, f.guest.ID, model.SubmitAnswerRequest{Round: 2, Answer: second})
		require.NoError(t, err)
		assert.True(t, res.MatchCompleted)

		m, err = f.matches.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.MatchStatusCompleted, m.Status)
		require.NotNil(t, m.WinnerID)
		assert.Equal(t, f.host.ID, *m.WinnerID)
		require.NotNil(t, m.CompletedAt)

		completed := f.publisher.ofType(model.WSEventMatchCompleted)
		require.Len(t, completed, 1)
		assert.ElementsMatch(t, []uuid.UUID{f.host.ID, f.guest.ID}, completed[0].userIDs)

		var notified int64
		require.NoError(t, f.db.Model(&model.Notification{}).
			Where("type = ?", model.NotificationMatchCompleted).Count(&notified).Error)
		assert.Equal(t, int64(2), notified)

		results, err := f.svc.RoundResults(ctx, id, f.guest.ID)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Len(t, results[0].Answers, 2)
		assert.Equal(t, first, results[0].Round.Answer)

		view, err := f.svc.GetMatch(ctx, id, f.guest.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, view.Players[0].Score)
		assert.Equal(t, 100, view.Players[1].Score)
	})

	t.Run("WrongAnswerScoresZero", func(t *testing.T) {
		f := newFlashMatchFixture(t, 1)
		v := f.startWithGuest(t, 1, 30)

		res, err := f.svc.SubmitAnswer(ctx, v.Match.ID, f.guest.ID, model.SubmitAnswerRequest{Round: 1, Answer: "zzzzz"})
		require.NoError(t, err)
		assert.False(t, res.Answer.Correct)
		assert.Zero(t, res.Answer.Points)
		assert.NotEmpty(t, res.CorrectAnswer)
	})

	t.Run("OutsiderCannotAnswer", func(t *testing.T) {
		f := newFlashMatchFixture(t, 1)
		v := f.startWithGuest(t, 1, 30)
		outsider := createUser(t, f.db, "outsider")

		_, err := f.svc.SubmitAnswer(ctx, v.Match.ID, outsider.ID, model.SubmitAnswerRequest{Round: 1, Answer: "x"})
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))

		_, err = f.svc.GetMatch(ctx, v.Match.ID, outsider.ID)
		assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))
	})
}

func TestFlashMatchSweeper(t *testing.T) {
	ctx := context.Background()
	f := newFlashMatchFixture(t, 2)
	v := f.startWithGuest(t, 2, 10)
	id := v.Match.ID

	n, err := f.svc.ExpireOverdueRounds(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is overdue yet")

	f.clock = f.clock.Add(11 * time.Second)
	_, err = f.svc.SubmitAnswer(ctx, id, f.host.ID, model.SubmitAnswerRequest{Round: 1, Answer: "late"})
	assert.True(t, model.IsErrorCode(err, model.ErrCodeConflict), "answers after the deadline are rejected")

	n, err = f.svc.ExpireOverdueRounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	round, err := f.matches.GetRound(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatusExpired, round.Status)

	m, err := f.matches.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, m.CurrentRound)

	// a second sweep at the same instant finds round 2 still open
	n, err = f.svc.ExpireOverdueRounds(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.clock = f.clock.Add(11 * time.Second)
	n, err = f.svc.ExpireOverdueRounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	m, err = f.matches.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.MatchStatusCompleted, m.Status)
}

func TestFlashMatchRoomScope(t *testing.T) {
	ctx := context.Background()
	f := newFlashMatchFixture(t, 1)
	room := createRoom(t, f.db, f.host, f.guest)
	outsider := createUser(t, f.db, "outsider")

	v, err := f.svc.CreateMatch(ctx, f.host.ID, model.CreateMatchRequest{RoomID: &room.ID})
	require.NoError(t, err)

	var invites int64
	require.NoError(t, f.db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", f.guest.ID, model.NotificationMatchInvite).Count(&invites).Error)
	assert.Equal(t, int64(1), invites)

	_, err = f.svc.JoinMatch(ctx, v.Match.ID, outsider.ID)
	assert.True(t, model.IsErrorCode(err, model.ErrCodeForbidden))

	// room members may watch without playing
	_, err = f.svc.GetMatch(ctx, v.Match.ID, f.guest.ID)
	require.NoError(t, err)

	list, err := f.svc.ListMatches(ctx, f.guest.ID, &room.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, v.Match.ID, list[0].ID)
}
