package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/seladavis/forgebot/internal/domain"
)

// MemoryStore is an in-process domain.GameStore used by unit tests. TTLs are
// driven by an injected clock, so tests advance time deterministically. All
// operations take the one mutex, which gives the same atomicity the Redis
// implementation gets from Lua scripts and pipelines.
type MemoryStore struct {
	mu    sync.Mutex
	clock clockwork.Clock

	rounds     map[string]*domain.Round
	hints      map[string]int
	announceAt map[string]time.Time // debounce expiry instants
	answerAt   map[string]time.Time
	answered   map[string]time.Time
	scores     map[string]int
	boards     map[string]boardCacheEntry
}

type boardCacheEntry struct {
	rendered string
	expires  time.Time
}

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		clock:      clock,
		rounds:     make(map[string]*domain.Round),
		hints:      make(map[string]int),
		announceAt: make(map[string]time.Time),
		answerAt:   make(map[string]time.Time),
		answered:   make(map[string]time.Time),
		scores:     make(map[string]int),
		boards:     make(map[string]boardCacheEntry),
	}
}

var _ domain.GameStore = (*MemoryStore)(nil)

func (s *MemoryStore) GetRound(_ context.Context, channelID string) (*domain.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[channelID]
	if !ok {
		return nil, nil
	}
	copied := *round
	return &copied, nil
}

func (s *MemoryStore) CreateRound(_ context.Context, channelID string, round *domain.Round, announceDebounce time.Duration) (domain.CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flagSet(s.announceAt, channelID) {
		return domain.CreateResult{State: domain.CreateShushed}, nil
	}
	if existing, ok := s.rounds[channelID]; ok {
		copied := *existing
		return domain.CreateResult{State: domain.CreateRepeated, Round: &copied}, nil
	}

	copied := *round
	s.rounds[channelID] = &copied
	s.announceAt[channelID] = s.clock.Now().Add(announceDebounce)
	return domain.CreateResult{State: domain.CreateStarted}, nil
}

func (s *MemoryStore) ResolveRound(_ context.Context, channelID string, answerDebounce time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rounds, channelID)
	delete(s.hints, channelID)
	delete(s.announceAt, channelID)
	s.answerAt[channelID] = s.clock.Now().Add(answerDebounce)
	return nil
}

func (s *MemoryStore) AnnounceDebounced(_ context.Context, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flagSet(s.announceAt, channelID), nil
}

func (s *MemoryStore) AnswerDebounced(_ context.Context, channelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flagSet(s.answerAt, channelID), nil
}

func (s *MemoryStore) HintCount(_ context.Context, channelID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hints[channelID], nil
}

func (s *MemoryStore) IncrementHintCount(_ context.Context, channelID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints[channelID]++
	return s.hints[channelID], nil
}

func (s *MemoryStore) MarkAnswered(_ context.Context, channelID string, roundID int, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answered[answeredKey(channelID, roundID, userID)] = s.clock.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) HasAnswered(_ context.Context, channelID string, roundID int, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flagSet(s.answered, answeredKey(channelID, roundID, userID)), nil
}

func (s *MemoryStore) GetScore(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scores[userID]; !ok {
		s.scores[userID] = 0
	}
	return s.scores[userID], nil
}

func (s *MemoryStore) AddScore(_ context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[userID] += delta
	return s.scores[userID], nil
}

func (s *MemoryStore) ScanScores(_ context.Context) ([]domain.ScoreEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.ScoreEntry, 0, len(s.scores))
	for userID, score := range s.scores {
		entries = append(entries, domain.ScoreEntry{UserID: userID, Score: score})
	}
	return entries, nil
}

func (s *MemoryStore) GetBoardCache(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.boards[key]
	if !ok || s.clock.Now().After(entry.expires) {
		delete(s.boards, key)
		return "", false, nil
	}
	return entry.rendered, true, nil
}

func (s *MemoryStore) SetBoardCache(_ context.Context, key, rendered string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[key] = boardCacheEntry{rendered: rendered, expires: s.clock.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rounds, channelID)
	delete(s.hints, channelID)
	delete(s.announceAt, channelID)
	delete(s.answerAt, channelID)
	for key := range s.answered {
		if strings.HasPrefix(key, channelID+":") {
			delete(s.answered, key)
		}
	}
	for userID := range s.scores {
		delete(s.scores, userID)
	}
	for key := range s.boards {
		delete(s.boards, key)
	}
	return nil
}

// flagSet reports whether a TTL flag is still live, pruning it when expired.
func (s *MemoryStore) flagSet(flags map[string]time.Time, key string) bool {
	expires, ok := flags[key]
	if !ok {
		return false
	}
	if !s.clock.Now().Before(expires) {
		delete(flags, key)
		return false
	}
	return true
}

func answeredKey(channelID string, roundID int, userID string) string {
	return fmt.Sprintf("%s:%d:%s", channelID, roundID, userID)
}
