package chat

import "time"

// MessageType categorizes a message's content.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeVideo    MessageType = "video"
	TypeAudio    MessageType = "audio"
	TypeDocument MessageType = "document"
	TypeSystem   MessageType = "system"
)

// SystemSender is the fixed sender name for system messages.
const SystemSender = "System"

// MediaType categorizes an extracted media file.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
)

// Media represents one binary file extracted from an export archive.
// The Handle is an ephemeral token into the media arena; it is revoked
// when the owning chat is cleared or replaced.
type Media struct {
	ID     string
	Name   string
	Type   MediaType
	Size   int64
	Handle string
}

// Message is one parsed chat message. It is created by the parser,
// mutated once by the linker (Media and Caption) and immutable after.
type Message struct {
	ID        string
	Timestamp time.Time
	Sender    string
	Content   string
	Type      MessageType
	Media     *Media
	Caption   string
}

// IsSystem reports whether the message is a system notice.
func (m *Message) IsSystem() bool {
	return m.Type == TypeSystem
}

// Chat is the aggregate of one imported conversation.
// Messages are ordered ascending by timestamp.
type Chat struct {
	ID           string
	Name         string
	Messages     []Message
	Participants []string
	IsGroup      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LastMessage returns the final message or nil for an empty chat.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// SearchResult holds one fuzzy search hit with a highlighted snippet.
type SearchResult struct {
	ChatID             string
	ChatName           string
	Message            Message
	HighlightedContent string
}

// MessageGroup is a run of consecutive messages from the same sender,
// recomputed per render pass and never persisted.
type MessageGroup struct {
	Sender     string
	IsOutgoing bool
	IsSystem   bool
	Messages   []Message
	Timestamp  time.Time
}
