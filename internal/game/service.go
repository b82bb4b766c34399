package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seladavis/forgebot/internal/domain"
	"github.com/seladavis/forgebot/internal/logging"
	"github.com/seladavis/forgebot/internal/match"
	"github.com/seladavis/forgebot/internal/metrics"
)

const (
	// announceDebounce suppresses duplicate round announcements when two
	// users trigger a start at (nearly) the same time.
	announceDebounce = 10 * time.Second
	// answerDebounce keeps the bot quiet right after a round resolves, so
	// the second of two racing answers doesn't draw a fresh reply.
	answerDebounce = 5 * time.Second
)

// QuestionSource delivers a fresh, sanitized question. Implementations
// retry internally on defective upstream data.
type QuestionSource interface {
	FetchQuestion(ctx context.Context) (*domain.Round, error)
}

// NameDirectory resolves an opaque user ID to a display name. Lookups never
// fail: implementations fall back to a placeholder name.
type NameDirectory interface {
	DisplayName(ctx context.Context, userID string, useRealName bool) string
}

// Service runs the per-channel round state machine against the shared store.
type Service struct {
	store     domain.GameStore
	questions QuestionSource
	names     NameDirectory
	evaluator *match.Evaluator

	answerWindow time.Duration
	botUsername  string

	// metrics may be nil; all recorders are nil-safe.
	metrics *metrics.GameMetrics
}

func NewService(store domain.GameStore, questions QuestionSource, names NameDirectory, evaluator *match.Evaluator, answerWindow time.Duration, botUsername string, gameMetrics *metrics.GameMetrics) *Service {
	return &Service{
		store:        store,
		questions:    questions,
		names:        names,
		evaluator:    evaluator,
		answerWindow: answerWindow,
		botUsername:  botUsername,
		metrics:      gameMetrics,
	}
}

// StartOrRepeatRound starts a new round for the channel, or repeats the
// active one. Returns "" while the announcement debounce is set, so
// near-simultaneous starts produce a single announcement. timestamp is the
// inbound command's submission time in unix seconds.
func (s *Service) StartOrRepeatRound(ctx context.Context, channelID string, timestamp float64) (string, error) {
	debounced, err := s.store.AnnounceDebounced(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("check announce debounce: %w", err)
	}
	if debounced {
		return "", nil
	}

	round, err := s.store.GetRound(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("get round: %w", err)
	}
	if round != nil {
		return renderQuestion(round), nil
	}

	fetched, err := s.questions.FetchQuestion(ctx)
	if err != nil {
		s.metrics.QuestionFetch("error")
		return "", fmt.Errorf("fetch question: %w", err)
	}
	s.metrics.QuestionFetch("ok")
	fetched.Expiration = timestamp + s.answerWindow.Seconds()

	// The create is a single conditional write: if another start slipped in
	// since the read above, its round wins and ours is discarded.
	result, err := s.store.CreateRound(ctx, channelID, fetched, announceDebounce)
	if err != nil {
		return "", fmt.Errorf("create round: %w", err)
	}

	switch result.State {
	case domain.CreateShushed:
		return "", nil
	case domain.CreateRepeated:
		return renderQuestion(result.Round), nil
	}

	logging.WithChannel(channelID).Info("round started",
		"round_id", fetched.ID,
		"category", fetched.Category.Title,
		"value", fetched.Value,
	)
	return renderQuestion(fetched), nil
}

// RequestHint reveals one more leading character of the answer, padded with
// dots to the answer's full length. Each hint costs 100 points off the
// round's value.
func (s *Service) RequestHint(ctx context.Context, channelID string) (string, error) {
	round, err := s.store.GetRound(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("get round: %w", err)
	}
	if round == nil {
		return s.noRoundReply(ctx, channelID)
	}

	count, err := s.store.IncrementHintCount(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("increment hint count: %w", err)
	}

	return fmt.Sprintf("%s (hints used: %d)", hintText(round.Answer, count), count), nil
}

// Skip reveals the answer of the active round and resolves it. The caller
// chains StartOrRepeatRound to advance to a fresh question in the same reply.
func (s *Service) Skip(ctx context.Context, channelID string) (string, error) {
	round, err := s.store.GetRound(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("get round: %w", err)
	}
	if round == nil {
		return "There was no active question. Here's a new one:\n", nil
	}

	if err := s.store.ResolveRound(ctx, channelID, answerDebounce); err != nil {
		return "", fmt.Errorf("resolve round: %w", err)
	}
	return fmt.Sprintf("The answer is `%s`.\n", round.Answer), nil
}

// SubmitAnswer judges a user's guess against the channel's active round,
// adjusting their score on success. guess is the answer text with the
// command prefix already stripped.
func (s *Service) SubmitAnswer(ctx context.Context, cmd domain.Command, guess string) (string, error) {
	channelID := cmd.ChannelID
	round, err := s.store.GetRound(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("get round: %w", err)
	}
	if round == nil {
		return s.noRoundReply(ctx, channelID)
	}

	name := s.names.DisplayName(ctx, cmd.UserID, false)
	window := int(s.answerWindow.Seconds())

	if round.Expired(cmd.Timestamp) {
		s.metrics.Answer("expired")
		var reply string
		if s.evaluator.IsCorrect(round.Answer, guess) {
			reply = fmt.Sprintf("That is correct, %s, but time's up! Remember, you have %d seconds to answer.", name, window)
		} else {
			reply = fmt.Sprintf("Time's up, %s! Remember, you have %d seconds to answer. The correct answer is `%s`.", name, window, round.Answer)
		}
		if err := s.store.ResolveRound(ctx, channelID, answerDebounce); err != nil {
			return "", fmt.Errorf("resolve round: %w", err)
		}
		return reply, nil
	}

	answered, err := s.store.HasAnswered(ctx, channelID, round.ID, cmd.UserID)
	if err != nil {
		return "", fmt.Errorf("check answered marker: %w", err)
	}
	if answered {
		return fmt.Sprintf("You had your chance, %s. Let someone else answer.", name), nil
	}

	if !s.evaluator.IsCorrect(round.Answer, guess) {
		s.metrics.Answer("incorrect")
		if err := s.store.MarkAnswered(ctx, channelID, round.ID, cmd.UserID, s.answerWindow); err != nil {
			return "", fmt.Errorf("mark answered: %w", err)
		}
		return fmt.Sprintf("%s is incorrect, %s.", strings.TrimSpace(guess), name), nil
	}

	s.metrics.Answer("correct")
	hints, err := s.store.HintCount(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("get hint count: %w", err)
	}
	points := AdjustedPoints(round.Value, hints)

	total, err := s.store.AddScore(ctx, cmd.UserID, points)
	if err != nil {
		return "", fmt.Errorf("add score: %w", err)
	}

	earned := CurrencyFormat(points)
	if points != round.Value {
		earned += fmt.Sprintf(" (adjusted from: %s)", CurrencyFormat(round.Value))
	}

	if err := s.store.ResolveRound(ctx, channelID, answerDebounce); err != nil {
		return "", fmt.Errorf("resolve round: %w", err)
	}

	logging.WithUser(cmd.UserID).Info("round answered",
		"channel_id", channelID,
		"round_id", round.ID,
		"points", points,
		"total", total,
	)
	return fmt.Sprintf("That is correct, *%s*. The answer was `%s`. You have earned %s. Your total score is %s.", name, round.Answer, earned, CurrencyFormat(total)), nil
}

// UserScore renders the user's current total.
func (s *Service) UserScore(ctx context.Context, userID string) (string, error) {
	score, err := s.store.GetScore(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get score: %w", err)
	}
	name := s.names.DisplayName(ctx, userID, false)
	return fmt.Sprintf("%s, your score is %s.", name, CurrencyFormat(score)), nil
}

// Reset wipes the channel's round state, every user score, and the board
// caches. Authorization is the caller's job.
func (s *Service) Reset(ctx context.Context, channelID string) error {
	if err := s.store.Reset(ctx, channelID); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	logging.WithChannel(channelID).Info("scores reset")
	return nil
}

// Help lists the commands the bot understands.
func (s *Service) Help() string {
	const text = "Type `!t` to start a new round of trivia. I will pick the category and price. Anyone in the channel can respond.\n" +
		"Type `!a` to respond to the active question. You have %d seconds to answer.\n" +
		"Type `!h` to get a one-letter hint. This reduces the value of the question by $100.\n" +
		"Type `!skip` to skip the current question, see the answer, and get a new question.\n" +
		"Type `!top` to see the top scores.\n" +
		"Type `%s what is my score` to see your current score.\n" +
		"Type `%s show the loserboard` to see the bottom scores."
	return fmt.Sprintf(text, int(s.answerWindow.Seconds()), s.botUsername, s.botUsername)
}

// noRoundReply prompts the user to start a round, unless a round just
// resolved and the answer debounce calls for silence.
func (s *Service) noRoundReply(ctx context.Context, channelID string) (string, error) {
	debounced, err := s.store.AnswerDebounced(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("check answer debounce: %w", err)
	}
	if debounced {
		return "", nil
	}
	return `There is no active question. Type "!t" to get a question.`, nil
}

func renderQuestion(round *domain.Round) string {
	return fmt.Sprintf("The category is `%s` for %s: `%s`", round.Category.Title, CurrencyFormat(round.Value), round.Question)
}

// hintText reveals the first count runes of the answer, left-justified and
// padded with dots to the answer's full length.
func hintText(answer string, count int) string {
	runes := []rune(answer)
	if count > len(runes) {
		count = len(runes)
	}
	return string(runes[:count]) + strings.Repeat(".", len(runes)-count)
}
