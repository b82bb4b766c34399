// Package slack talks to the chat platform: resolving user IDs to display
// names (the outgoing webhook only carries IDs) and shaping the reply
// payload the webhook response must carry.
package slack
