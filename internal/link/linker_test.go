package link

import (
	"testing"
	"time"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/archive"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
)

func catalogWith(items ...*chat.Media) *archive.Catalog {
	c := archive.NewCatalog()
	for _, m := range items {
		c.Add(m)
	}
	return c
}

func TestLinkByFilenameInContent(t *testing.T) {
	m := &chat.Media{ID: "m1", Name: "IMG-20220205-WA0028.jpg", Type: chat.MediaImage}
	c := &chat.Chat{Messages: []chat.Message{{
		ID:      "1",
		Sender:  "Sagar",
		Content: "IMG-20220205-WA0028.jpg (file attached)",
		Type:    chat.TypeImage,
		// Far from the filename-embedded date: the filename strategy must
		// not depend on timestamp proximity.
		Timestamp: time.Date(2023, 6, 1, 12, 0, 0, 0, time.Local),
	}}}

	New(nil).Link(c, catalogWith(m))

	if c.Messages[0].Media == nil {
		t.Fatal("message not linked")
	}
	if c.Messages[0].Media.ID != "m1" {
		t.Errorf("linked %q, want m1", c.Messages[0].Media.ID)
	}
}

func TestLinkByTimestampProximity(t *testing.T) {
	m := &chat.Media{ID: "m1", Name: "photo_2022-02-05.jpg", Type: chat.MediaImage}
	c := &chat.Chat{Messages: []chat.Message{{
		ID:      "1",
		Content: "<Media omitted>",
		Type:    chat.TypeImage,
		// Within 5 minutes of midnight on the embedded date.
		Timestamp: time.Date(2022, 2, 5, 0, 3, 0, 0, time.Local),
	}}}

	New(nil).Link(c, catalogWith(m))

	if c.Messages[0].Media == nil {
		t.Fatal("message not linked by timestamp proximity")
	}
}

func TestLinkTimestampOutsideWindow(t *testing.T) {
	m := &chat.Media{ID: "m1", Name: "photo_2022-02-05.jpg", Type: chat.MediaImage}
	c := &chat.Chat{Messages: []chat.Message{{
		ID:        "1",
		Content:   "<Media omitted>",
		Type:      chat.TypeImage,
		Timestamp: time.Date(2022, 2, 5, 0, 6, 0, 0, time.Local),
	}}}

	New(nil).Link(c, catalogWith(m))

	if c.Messages[0].Media != nil {
		t.Error("message linked outside the 5-minute window")
	}
}

func TestLinkTimestampTypeCompatibility(t *testing.T) {
	ts := time.Date(2022, 2, 5, 0, 1, 0, 0, time.Local)
	video := &chat.Media{ID: "vid", Name: "VID_2022-02-05.mp4", Type: chat.MediaVideo}

	// Image message must not claim a video blob via proximity.
	c := &chat.Chat{Messages: []chat.Message{{ID: "1", Content: "<Media omitted>", Type: chat.TypeImage, Timestamp: ts}}}
	New(nil).Link(c, catalogWith(video))
	if c.Messages[0].Media != nil {
		t.Error("image message linked to video blob")
	}

	// A document message may claim any media kind (loose fallback).
	c = &chat.Chat{Messages: []chat.Message{{ID: "2", Content: "document", Type: chat.TypeDocument, Timestamp: ts}}}
	New(nil).Link(c, catalogWith(video))
	if c.Messages[0].Media == nil {
		t.Error("document message should link to video blob via fallback")
	}
}

func TestLinkSkipsTextAndSystem(t *testing.T) {
	m := &chat.Media{ID: "m1", Name: "IMG-20220205-WA0028.jpg", Type: chat.MediaImage}
	c := &chat.Chat{Messages: []chat.Message{
		{ID: "1", Content: "IMG-20220205-WA0028.jpg is a nice photo", Type: chat.TypeText},
		{ID: "2", Content: "IMG-20220205-WA0028.jpg", Type: chat.TypeSystem, Sender: chat.SystemSender},
	}}

	New(nil).Link(c, catalogWith(m))

	for _, msg := range c.Messages {
		if msg.Media != nil {
			t.Errorf("message %s of type %s should not be linked", msg.ID, msg.Type)
		}
	}
}

func TestLinkCaptionExtraction(t *testing.T) {
	m := &chat.Media{ID: "m1", Name: "photo_2022-02-05.jpg", Type: chat.MediaImage}
	c := &chat.Chat{Messages: []chat.Message{{
		ID:        "1",
		Content:   "<Media omitted>\nLook at this sunset!",
		Type:      chat.TypeImage,
		Timestamp: time.Date(2022, 2, 5, 0, 0, 30, 0, time.Local),
	}}}

	New(nil).Link(c, catalogWith(m))

	msg := c.Messages[0]
	if msg.Media == nil {
		t.Fatal("message not linked")
	}
	if msg.Caption != "Look at this sunset!" {
		t.Errorf("caption = %q, want the non-placeholder line", msg.Caption)
	}
}

func TestLinkNoCaptionWhenOnlyPlaceholder(t *testing.T) {
	m := &chat.Media{ID: "m1", Name: "photo_2022-02-05.jpg", Type: chat.MediaImage}
	c := &chat.Chat{Messages: []chat.Message{{
		ID:        "1",
		Content:   "<Media omitted>",
		Type:      chat.TypeImage,
		Timestamp: time.Date(2022, 2, 5, 0, 0, 30, 0, time.Local),
	}}}

	New(nil).Link(c, catalogWith(m))

	if c.Messages[0].Caption != "" {
		t.Errorf("caption = %q, want empty", c.Messages[0].Caption)
	}
}

func TestExtractCaption(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no placeholder", "just text", ""},
		{"placeholder only", "<Media omitted>", ""},
		{"placeholder with caption", "image omitted\nmy caption", "my caption"},
		{"multi-line caption", "<Media omitted>\nline one\nline two", "line one\nline two"},
		{"blank lines skipped", "video omitted\n\ncaption", "caption"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCaption(tt.content); got != tt.want {
				t.Errorf("extractCaption(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
