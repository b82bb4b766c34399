// Package redis implements domain.GameStore on a Redis server. Multi-key
// round transitions run as Lua scripts so concurrent requests observe them
// atomically; debounce flags are plain TTL keys.
package redis
