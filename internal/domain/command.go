package domain

// Command carries one inbound user action from the webhook layer.
// Timestamp is the chat platform's submission time in unix seconds
// (fractional), not the time the request was processed.
type Command struct {
	ChannelID   string
	ChannelName string
	UserID      string
	UserName    string
	Text        string
	Timestamp   float64
}
