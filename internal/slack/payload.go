package slack

// Response is the JSON payload returned to the outgoing webhook. link_names
// makes @mentions in the reply resolve to real user links.
type Response struct {
	Text      string `json:"text"`
	LinkNames int    `json:"link_names"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

// NewResponse wraps reply text in the webhook envelope. Username and icon
// are optional bot-identity overrides.
func NewResponse(text, username, iconEmoji string) Response {
	return Response{
		Text:      text,
		LinkNames: 1,
		Username:  username,
		IconEmoji: iconEmoji,
	}
}
