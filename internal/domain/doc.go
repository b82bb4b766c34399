// Package domain holds the core trivia types and the storage contracts the
// rest of the application is written against. Implementations live in
// internal/redis (production) and internal/game (in-memory, for tests).
package domain
