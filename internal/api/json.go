package api

import (
	"time"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
)

type mediaJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

type messageJSON struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Sender    string     `json:"sender"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`
	Media     *mediaJSON `json:"media,omitempty"`
	Caption   string     `json:"caption,omitempty"`
}

type chatJSON struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Messages     []messageJSON `json:"messages"`
	LastMessage  *messageJSON  `json:"lastMessage"`
	Participants []string      `json:"participants"`
	IsGroup      bool          `json:"isGroup"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type groupJSON struct {
	Sender     string        `json:"sender"`
	IsOutgoing bool          `json:"isOutgoing"`
	IsSystem   bool          `json:"isSystem"`
	ShowSender bool          `json:"showSender"`
	Timestamp  time.Time     `json:"timestamp"`
	Messages   []messageJSON `json:"messages"`
}

type resultJSON struct {
	ChatID             string      `json:"chatId"`
	ChatName           string      `json:"chatName"`
	Message            messageJSON `json:"message"`
	HighlightedContent string      `json:"highlightedContent"`
}

func mediaToJSON(m *chat.Media) *mediaJSON {
	if m == nil {
		return nil
	}
	return &mediaJSON{
		ID:   m.ID,
		Name: m.Name,
		Type: string(m.Type),
		Size: m.Size,
		URL:  "/api/v1/media/" + m.ID,
	}
}

func messageToJSON(m chat.Message) messageJSON {
	return messageJSON{
		ID:        m.ID,
		Timestamp: m.Timestamp,
		Sender:    m.Sender,
		Content:   m.Content,
		Type:      string(m.Type),
		Media:     mediaToJSON(m.Media),
		Caption:   m.Caption,
	}
}

func chatToJSON(c *chat.Chat) chatJSON {
	msgs := make([]messageJSON, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = messageToJSON(m)
	}
	var last *messageJSON
	if lm := c.LastMessage(); lm != nil {
		j := messageToJSON(*lm)
		last = &j
	}
	return chatJSON{
		ID:           c.ID,
		Name:         c.Name,
		Messages:     msgs,
		LastMessage:  last,
		Participants: c.Participants,
		IsGroup:      c.IsGroup,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func groupToJSON(g chat.MessageGroup, isGroupChat bool) groupJSON {
	msgs := make([]messageJSON, len(g.Messages))
	for i, m := range g.Messages {
		msgs[i] = messageToJSON(m)
	}
	return groupJSON{
		Sender:     g.Sender,
		IsOutgoing: g.IsOutgoing,
		IsSystem:   g.IsSystem,
		ShowSender: chat.ShowSenderName(g, isGroupChat),
		Timestamp:  g.Timestamp,
		Messages:   msgs,
	}
}

func resultToJSON(r chat.SearchResult) resultJSON {
	return resultJSON{
		ChatID:             r.ChatID,
		ChatName:           r.ChatName,
		Message:            messageToJSON(r.Message),
		HighlightedContent: r.HighlightedContent,
	}
}
