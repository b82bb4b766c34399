package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	leaderboardCacheKey = "leaderboard:1"
	loserboardCacheKey  = "loserboard:1"

	leaderboardCacheTTL = 5 * time.Minute
	loserboardCacheTTL  = 15 * time.Second

	boardLimit = 10
)

const noScoresReply = "There are no scores yet!"

// Leaderboard renders the top scores across all channels. The rendered
// board is cached for five minutes; two calls inside that window return the
// identical string even if scores changed in between. When final is set (on
// an admin reset) the header announces final scores instead.
func (s *Service) Leaderboard(ctx context.Context, final bool) (string, error) {
	header := "Let's take a look at the top scores:"
	if final {
		header = "The final scores for this round are:"
	}
	return s.renderBoard(ctx, leaderboardCacheKey, leaderboardCacheTTL, header, true)
}

// Loserboard renders the bottom scores, cached for fifteen seconds.
func (s *Service) Loserboard(ctx context.Context) (string, error) {
	return s.renderBoard(ctx, loserboardCacheKey, loserboardCacheTTL, "Let's take a look at the bottom scores:", false)
}

func (s *Service) renderBoard(ctx context.Context, cacheKey string, ttl time.Duration, header string, descending bool) (string, error) {
	cached, ok, err := s.store.GetBoardCache(ctx, cacheKey)
	if err != nil {
		return "", fmt.Errorf("get board cache: %w", err)
	}
	if ok {
		return cached, nil
	}

	entries, err := s.store.ScanScores(ctx)
	if err != nil {
		return "", fmt.Errorf("scan scores: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if descending {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Score < entries[j].Score
	})
	if len(entries) > boardLimit {
		entries = entries[:boardLimit]
	}

	response := noScoresReply
	if len(entries) > 0 {
		lines := make([]string, 0, len(entries))
		for i, entry := range entries {
			name := s.names.DisplayName(ctx, entry.UserID, true)
			lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, name, CurrencyFormat(entry.Score)))
		}
		response = header + "\n\n" + strings.Join(lines, "\n")
	}

	if err := s.store.SetBoardCache(ctx, cacheKey, response, ttl); err != nil {
		return "", fmt.Errorf("set board cache: %w", err)
	}
	return response, nil
}
