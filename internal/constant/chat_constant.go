package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// SessionPreviewLen bounds the preview stored on a session for list
	// views. Seeded from the first question, refreshed to the latest
	// answer on every recorded turn.
	SessionPreviewLen = 120

	// DefaultSessionTitle is used when the model returns no usable title
	// on the first turn.
	DefaultSessionTitle = "New chat"
)
