// Package game owns the round lifecycle: starting and repeating rounds,
// hints, skips, judging submitted answers, score keeping, and leaderboard
// rendering. All shared state lives behind domain.GameStore; the service
// itself is stateless and safe for concurrent requests.
package game
