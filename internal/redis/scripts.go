package redis

// Lua scripts for the round transitions that must appear atomic: creation
// (round + announcement debounce) and resolution (round teardown + answer
// debounce). Running each as a single EVAL closes the window where two
// racing requests both observe "no round" and both write one.

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

// createRoundScript conditionally creates a round. The announcement debounce
// is checked first: while it is set the caller stays silent, so the loser of
// a creation race never announces a duplicate. Past the debounce, an
// existing round always wins over the incoming one.
// KEYS: [1]=round, [2]=announce debounce
// ARGV: [1]=round JSON, [2]=debounce TTL seconds
// Returns {state, roundJSON} with state in {"started", "repeated", "shushed"}.
var createRoundScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
  return {'shushed', ''}
end
local existing = redis.call('GET', KEYS[1])
if existing then
  return {'repeated', existing}
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SETEX', KEYS[2], tonumber(ARGV[2]), 'true')
return {'started', ''}
`)

// resolveRoundScript tears a round down and arms the answer debounce.
// KEYS: [1]=round, [2]=hint count, [3]=announce debounce, [4]=answer debounce
// ARGV: [1]=answer debounce TTL seconds
var resolveRoundScript = goredis.NewScript(`
redis.call('DEL', KEYS[1], KEYS[2], KEYS[3])
redis.call('SETEX', KEYS[4], tonumber(ARGV[1]), 'true')
return 1
`)

type scriptReply struct {
	state string
	round string
}

func runCreateRound(ctx context.Context, rdb *goredis.Client, keys []string, roundJSON string, ttlSeconds int) (scriptReply, error) {
	result, err := createRoundScript.Run(ctx, rdb, keys, roundJSON, strconv.Itoa(ttlSeconds)).Result()
	if err != nil {
		return scriptReply{}, fmt.Errorf("create round script failed: %w", err)
	}

	parts, ok := result.([]any)
	if !ok || len(parts) != 2 {
		return scriptReply{}, fmt.Errorf("create round script returned unexpected shape: %v", result)
	}
	state, _ := parts[0].(string)
	round, _ := parts[1].(string)
	return scriptReply{state: state, round: round}, nil
}

func runResolveRound(ctx context.Context, rdb *goredis.Client, keys []string, ttlSeconds int) error {
	if err := resolveRoundScript.Run(ctx, rdb, keys, strconv.Itoa(ttlSeconds)).Err(); err != nil {
		return fmt.Errorf("resolve round script failed: %w", err)
	}
	return nil
}
