package domain

import (
	"context"
	"time"
)

// CreateState is the outcome of an atomic round-creation attempt.
type CreateState int

const (
	// CreateStarted means the new round was persisted and the announcement
	// debounce armed.
	CreateStarted CreateState = iota
	// CreateRepeated means another round already exists; Round holds it.
	CreateRepeated
	// CreateShushed means the announcement debounce is active and no round
	// exists; the caller must stay silent.
	CreateShushed
)

// CreateResult reports how a round-creation attempt resolved. Round is only
// set for CreateRepeated, carrying the round that won.
type CreateResult struct {
	State CreateState
	Round *Round
}

// GameStore is the shared coordination store for the trivia game. All state
// lives here; request handlers are stateless. Every multi-key transition
// (create round + debounce, resolve round + debounce) must appear atomic to
// concurrent readers, so implementations use the store's native transaction
// primitives rather than sequential writes.
type GameStore interface {
	// GetRound returns the active round for the channel, or nil if none.
	GetRound(ctx context.Context, channelID string) (*Round, error)

	// CreateRound atomically creates the round and arms the announcement
	// debounce, unless the debounce is active or a round already exists.
	// Exactly one of N concurrent calls observes CreateStarted.
	CreateRound(ctx context.Context, channelID string, round *Round, announceDebounce time.Duration) (CreateResult, error)

	// ResolveRound atomically deletes the round, its hint count, and the
	// announcement debounce, and arms the answer debounce.
	ResolveRound(ctx context.Context, channelID string, answerDebounce time.Duration) error

	// AnnounceDebounced reports whether the post-announcement debounce is
	// active.
	AnnounceDebounced(ctx context.Context, channelID string) (bool, error)

	// AnswerDebounced reports whether the post-resolution debounce is active.
	AnswerDebounced(ctx context.Context, channelID string) (bool, error)

	HintCount(ctx context.Context, channelID string) (int, error)
	IncrementHintCount(ctx context.Context, channelID string) (int, error)

	// MarkAnswered flags that the user has used their guess for this round.
	// The flag expires with the answer window.
	MarkAnswered(ctx context.Context, channelID string, roundID int, userID string, ttl time.Duration) error
	HasAnswered(ctx context.Context, channelID string, roundID int, userID string) (bool, error)

	// GetScore returns the user's total, lazily persisting 0 if absent.
	GetScore(ctx context.Context, userID string) (int, error)
	// AddScore atomically adds delta (possibly negative) and returns the
	// new total.
	AddScore(ctx context.Context, userID string, delta int) (int, error)
	// ScanScores returns every user's score entry, deduplicated by user.
	ScanScores(ctx context.Context) ([]ScoreEntry, error)

	// Board caches hold fully rendered leaderboard strings.
	GetBoardCache(ctx context.Context, key string) (string, bool, error)
	SetBoardCache(ctx context.Context, key, rendered string, ttl time.Duration) error

	// Reset deletes all round and debounce state for the channel, every
	// user score, and both board caches.
	Reset(ctx context.Context, channelID string) error
}
