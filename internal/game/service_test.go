package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seladavis/forgebot/internal/domain"
	"github.com/seladavis/forgebot/internal/match"
)

const testAnswerWindow = 30 * time.Second

// fakeQuestions hands out rounds with increasing IDs.
type fakeQuestions struct {
	mu      sync.Mutex
	nextID  int
	fetches int
	err     error
}

func (f *fakeQuestions) FetchQuestion(context.Context) (*domain.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.fetches++
	f.nextID++
	return &domain.Round{
		ID:       f.nextID,
		Category: domain.Category{Title: "Geography"},
		Question: fmt.Sprintf("Question #%d", f.nextID),
		Answer:   "Mount Everest",
		Value:    400,
	}, nil
}

type fakeNames struct{}

func (fakeNames) DisplayName(_ context.Context, userID string, _ bool) string {
	return "name-" + userID
}

type fixture struct {
	service *Service
	store   *MemoryStore
	clock   *clockwork.FakeClock
	source  *fakeQuestions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	source := &fakeQuestions{}
	service := NewService(store, source, fakeNames{}, match.NewEvaluator(0.5), testAnswerWindow, "forgebot", nil)
	return &fixture{service: service, store: store, clock: clock, source: source}
}

func (f *fixture) now() float64 {
	return float64(f.clock.Now().Unix())
}

func TestStartRound_AnnouncesQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)
	assert.Equal(t, "The category is `Geography` for $400: `Question #1`", reply)
}

func TestStartRound_SecondCallInsideDebounceIsSilent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	reply, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, 1, f.source.fetches)
}

func TestStartRound_RepeatsSameQuestionAfterDebounceExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	f.clock.Advance(11 * time.Second)

	second, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.source.fetches, "repeat must not fetch a new question")
}

func TestStartRound_ConcurrentStartsCreateOneRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	announcements := make(chan string, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
			assert.NoError(t, err)
			if reply != "" {
				announcements <- reply
			}
		}()
	}
	wg.Wait()
	close(announcements)

	// Every non-silent reply must announce the one surviving round.
	distinct := make(map[string]struct{})
	for reply := range announcements {
		distinct[reply] = struct{}{}
	}
	assert.Len(t, distinct, 1)

	round, err := f.store.GetRound(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, round)
}

func TestRequestHint_NoRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.service.RequestHint(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, `There is no active question. Type "!t" to get a question.`, reply)
}

func TestRequestHint_RevealsPrefixAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	reply, err := f.service.RequestHint(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "M............ (hints used: 1)", reply)

	reply, err = f.service.RequestHint(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "Mo........... (hints used: 2)", reply)
}

func TestSubmitAnswer_CorrectBeforeExpiration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	cmd := domain.Command{ChannelID: "C1", UserID: "U1", Timestamp: f.now()}
	reply, err := f.service.SubmitAnswer(ctx, cmd, "what is mount everest?")
	require.NoError(t, err)
	assert.Equal(t, "That is correct, *name-U1*. The answer was `Mount Everest`. You have earned $400. Your total score is $400.", reply)

	round, err := f.store.GetRound(ctx, "C1")
	require.NoError(t, err)
	assert.Nil(t, round, "round must be resolved after a correct answer")

	// A follow-up hint inside the answer debounce stays silent; after it
	// expires the no-question prompt returns.
	hint, err := f.service.RequestHint(ctx, "C1")
	require.NoError(t, err)
	assert.Empty(t, hint)

	f.clock.Advance(6 * time.Second)
	hint, err = f.service.RequestHint(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, `There is no active question. Type "!t" to get a question.`, hint)
}

func TestSubmitAnswer_HintsReducePoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	_, err = f.service.RequestHint(ctx, "C1")
	require.NoError(t, err)
	_, err = f.service.RequestHint(ctx, "C1")
	require.NoError(t, err)

	cmd := domain.Command{ChannelID: "C1", UserID: "U1", Timestamp: f.now()}
	reply, err := f.service.SubmitAnswer(ctx, cmd, "mount everest")
	require.NoError(t, err)
	assert.Contains(t, reply, "You have earned $200 (adjusted from: $400).")

	score, err := f.store.GetScore(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, 200, score)
}

func TestSubmitAnswer_CorrectButExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	late := f.now() + testAnswerWindow.Seconds() + 1
	cmd := domain.Command{ChannelID: "C1", UserID: "U1", Timestamp: late}
	reply, err := f.service.SubmitAnswer(ctx, cmd, "mount everest")
	require.NoError(t, err)
	assert.Equal(t, "That is correct, name-U1, but time's up! Remember, you have 30 seconds to answer.", reply)

	round, err := f.store.GetRound(ctx, "C1")
	require.NoError(t, err)
	assert.Nil(t, round, "expired round must be lazily resolved")

	score, err := f.store.GetScore(ctx, "U1")
	require.NoError(t, err)
	assert.Zero(t, score, "no points past expiration")
}

func TestSubmitAnswer_WrongExpiredRevealsAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	late := f.now() + testAnswerWindow.Seconds() + 1
	cmd := domain.Command{ChannelID: "C1", UserID: "U1", Timestamp: late}
	reply, err := f.service.SubmitAnswer(ctx, cmd, "kilimanjaro")
	require.NoError(t, err)
	assert.Equal(t, "Time's up, name-U1! Remember, you have 30 seconds to answer. The correct answer is `Mount Everest`.", reply)
}

func TestSubmitAnswer_WrongAnswerMarksUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	cmd := domain.Command{ChannelID: "C1", UserID: "U1", Timestamp: f.now()}
	reply, err := f.service.SubmitAnswer(ctx, cmd, "kilimanjaro")
	require.NoError(t, err)
	assert.Equal(t, "kilimanjaro is incorrect, name-U1.", reply)

	// Same user cannot guess again within the round.
	reply, err = f.service.SubmitAnswer(ctx, cmd, "mount everest")
	require.NoError(t, err)
	assert.Equal(t, "You had your chance, name-U1. Let someone else answer.", reply)

	// Another user still can.
	other := domain.Command{ChannelID: "C1", UserID: "U2", Timestamp: f.now()}
	reply, err = f.service.SubmitAnswer(ctx, other, "mount everest")
	require.NoError(t, err)
	assert.Contains(t, reply, "That is correct, *name-U2*.")
}

func TestSubmitAnswer_NoRoundPromptsUnlessDebounced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd := domain.Command{ChannelID: "C1", UserID: "U1", Timestamp: f.now()}
	reply, err := f.service.SubmitAnswer(ctx, cmd, "anything")
	require.NoError(t, err)
	assert.Equal(t, `There is no active question. Type "!t" to get a question.`, reply)

	// Resolve a round, arming the answer debounce: silence follows.
	_, err = f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)
	correct := domain.Command{ChannelID: "C1", UserID: "U2", Timestamp: f.now()}
	_, err = f.service.SubmitAnswer(ctx, correct, "mount everest")
	require.NoError(t, err)

	reply, err = f.service.SubmitAnswer(ctx, cmd, "anything")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestSkip_RevealsAnswerAndResolves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)

	reply, err := f.service.Skip(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "The answer is `Mount Everest`.\n", reply)

	// The chained start gets a fresh question, not the skipped one.
	next, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)
	assert.Equal(t, "The category is `Geography` for $400: `Question #2`", next)
}

func TestSkip_NoRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.service.Skip(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "There was no active question. Here's a new one:\n", reply)
}

func TestUserScore_LazyZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.service.UserScore(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "name-U1, your score is $0.", reply)
}

func TestReset_WipesScoresAndRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartOrRepeatRound(ctx, "C1", f.now())
	require.NoError(t, err)
	_, err = f.store.AddScore(ctx, "U1", 500)
	require.NoError(t, err)

	require.NoError(t, f.service.Reset(ctx, "C1"))

	round, err := f.store.GetRound(ctx, "C1")
	require.NoError(t, err)
	assert.Nil(t, round)
	score, err := f.store.GetScore(ctx, "U1")
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestHelp_MentionsWindowAndBot(t *testing.T) {
	f := newFixture(t)
	help := f.service.Help()
	assert.Contains(t, help, "You have 30 seconds to answer.")
	assert.Contains(t, help, "forgebot what is my score")
}
