package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/seladavis/forgebot/internal/domain"
)

// Key namespaces. Round and debounce keys are channel-scoped; scores and
// board caches are global.
const (
	roundKeyPrefix = "current_question:"
	scoreKeyPrefix = "user_score:"
)

func roundKey(channelID string) string {
	return roundKeyPrefix + channelID
}

func hintCountKey(channelID string) string {
	return roundKey(channelID) + ":hint_count"
}

func announceDebounceKey(channelID string) string {
	return "shush:question:" + channelID
}

func answerDebounceKey(channelID string) string {
	return "shush:answer:" + channelID
}

func scoreKey(userID string) string {
	return scoreKeyPrefix + userID
}

func answeredMarkerKey(channelID string, roundID int, userID string) string {
	return fmt.Sprintf("user_answer:%s:%d:%s", channelID, roundID, userID)
}

// GameStore implements domain.GameStore on Redis.
type GameStore struct {
	rdb *goredis.Client
}

func NewGameStore(client *Client) *GameStore {
	return &GameStore{rdb: client.rdb}
}

var _ domain.GameStore = (*GameStore)(nil)

func (s *GameStore) GetRound(ctx context.Context, channelID string) (*domain.Round, error) {
	data, err := s.rdb.Get(ctx, roundKey(channelID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	var round domain.Round
	if err := json.Unmarshal(data, &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored round: %w", err)
	}
	return &round, nil
}

func (s *GameStore) CreateRound(ctx context.Context, channelID string, round *domain.Round, announceDebounce time.Duration) (domain.CreateResult, error) {
	data, err := json.Marshal(round)
	if err != nil {
		return domain.CreateResult{}, fmt.Errorf("failed to marshal round: %w", err)
	}

	keys := []string{roundKey(channelID), announceDebounceKey(channelID)}
	reply, err := runCreateRound(ctx, s.rdb, keys, string(data), int(announceDebounce.Seconds()))
	if err != nil {
		return domain.CreateResult{}, err
	}

	switch reply.state {
	case "started":
		return domain.CreateResult{State: domain.CreateStarted}, nil
	case "shushed":
		return domain.CreateResult{State: domain.CreateShushed}, nil
	case "repeated":
		var existing domain.Round
		if err := json.Unmarshal([]byte(reply.round), &existing); err != nil {
			return domain.CreateResult{}, fmt.Errorf("failed to unmarshal existing round: %w", err)
		}
		return domain.CreateResult{State: domain.CreateRepeated, Round: &existing}, nil
	default:
		return domain.CreateResult{}, fmt.Errorf("create round script returned unknown state %q", reply.state)
	}
}

func (s *GameStore) ResolveRound(ctx context.Context, channelID string, answerDebounce time.Duration) error {
	keys := []string{
		roundKey(channelID),
		hintCountKey(channelID),
		announceDebounceKey(channelID),
		answerDebounceKey(channelID),
	}
	return runResolveRound(ctx, s.rdb, keys, int(answerDebounce.Seconds()))
}

func (s *GameStore) AnnounceDebounced(ctx context.Context, channelID string) (bool, error) {
	return s.exists(ctx, announceDebounceKey(channelID))
}

func (s *GameStore) AnswerDebounced(ctx context.Context, channelID string) (bool, error) {
	return s.exists(ctx, answerDebounceKey(channelID))
}

func (s *GameStore) HintCount(ctx context.Context, channelID string) (int, error) {
	count, err := s.rdb.Get(ctx, hintCountKey(channelID)).Int()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get hint count: %w", err)
	}
	return count, nil
}

func (s *GameStore) IncrementHintCount(ctx context.Context, channelID string) (int, error) {
	count, err := s.rdb.Incr(ctx, hintCountKey(channelID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment hint count: %w", err)
	}
	return int(count), nil
}

func (s *GameStore) MarkAnswered(ctx context.Context, channelID string, roundID int, userID string, ttl time.Duration) error {
	key := answeredMarkerKey(channelID, roundID, userID)
	if err := s.rdb.SetEx(ctx, key, "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to mark user answered: %w", err)
	}
	return nil
}

func (s *GameStore) HasAnswered(ctx context.Context, channelID string, roundID int, userID string) (bool, error) {
	return s.exists(ctx, answeredMarkerKey(channelID, roundID, userID))
}

func (s *GameStore) GetScore(ctx context.Context, userID string) (int, error) {
	score, err := s.rdb.Get(ctx, scoreKey(userID)).Int()
	if errors.Is(err, goredis.Nil) {
		if err := s.rdb.SetNX(ctx, scoreKey(userID), 0, 0).Err(); err != nil {
			return 0, fmt.Errorf("failed to initialize score: %w", err)
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get score: %w", err)
	}
	return score, nil
}

func (s *GameStore) AddScore(ctx context.Context, userID string, delta int) (int, error) {
	total, err := s.rdb.IncrBy(ctx, scoreKey(userID), int64(delta)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to add score: %w", err)
	}
	return int(total), nil
}

func (s *GameStore) ScanScores(ctx context.Context) ([]domain.ScoreEntry, error) {
	seen := make(map[string]struct{})
	var entries []domain.ScoreEntry

	iter := s.rdb.Scan(ctx, 0, scoreKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		userID := strings.TrimPrefix(key, scoreKeyPrefix)
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		raw, err := s.rdb.Get(ctx, key).Result()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get score for %s: %w", userID, err)
		}
		score, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed score for %s: %w", userID, err)
		}
		entries = append(entries, domain.ScoreEntry{UserID: userID, Score: score})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("score scan failed: %w", err)
	}
	return entries, nil
}

func (s *GameStore) GetBoardCache(ctx context.Context, key string) (string, bool, error) {
	rendered, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get board cache: %w", err)
	}
	return rendered, true, nil
}

func (s *GameStore) SetBoardCache(ctx context.Context, key, rendered string, ttl time.Duration) error {
	if err := s.rdb.SetEx(ctx, key, rendered, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set board cache: %w", err)
	}
	return nil
}

// Reset deletes the channel's round and debounce keys, every user score,
// and both board caches, mirroring the admin reset.
func (s *GameStore) Reset(ctx context.Context, channelID string) error {
	patterns := []string{
		"*:" + channelID + "*",
		scoreKeyPrefix + "*",
	}
	for _, pattern := range patterns {
		if err := s.deleteMatching(ctx, pattern); err != nil {
			return err
		}
	}
	if err := s.rdb.Del(ctx, "leaderboard:1", "loserboard:1").Err(); err != nil {
		return fmt.Errorf("failed to delete board caches: %w", err)
	}
	return nil
}

func (s *GameStore) deleteMatching(ctx context.Context, pattern string) error {
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("key scan for %q failed: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys for %q: %w", pattern, err)
	}
	return nil
}

func (s *GameStore) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}
