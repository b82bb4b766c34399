// Package server exposes the HTTP surface of the bot: the outgoing webhook
// endpoint that drives the game, plus health and metrics endpoints.
//
// Every webhook request is answered with HTTP 200 and a JSON payload.
// Internal errors are logged and turn into an empty reply, so the chat
// channel never sees a stack trace.
package server
