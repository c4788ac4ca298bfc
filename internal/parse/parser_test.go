package parse

import (
	"strings"
	"testing"
	"time"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
)

func TestParseBracketedExport(t *testing.T) {
	input := "[25/12/2023, 10:30:45] John: Hello there!\n[25/12/2023, 10:31:20] Jane: Hi! How are you?"
	c := New(DayFirst, nil).Parse(input, "WhatsApp Chat with Jane.txt")

	if len(c.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(c.Messages))
	}
	if c.Name != "Jane" {
		t.Errorf("chat name = %q, want Jane", c.Name)
	}
	if c.Messages[0].Sender != "John" || c.Messages[1].Sender != "Jane" {
		t.Errorf("senders = %q, %q", c.Messages[0].Sender, c.Messages[1].Sender)
	}
	for _, m := range c.Messages {
		if m.Type != chat.TypeText {
			t.Errorf("message %q type = %q, want text", m.Content, m.Type)
		}
	}
	if c.IsGroup {
		t.Error("two-participant chat should not be a group")
	}
	want := time.Date(2023, 12, 25, 10, 30, 45, 0, time.Local)
	if !c.Messages[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", c.Messages[0].Timestamp, want)
	}
}

func TestParseContinuationLine(t *testing.T) {
	input := "06/02/22, 1:00 am - Sagar: IMG-20220205-WA0028.jpg (file attached)\nTamne pan aaje lai aavva ta ahi"
	c := New(DayFirst, nil).Parse(input, "chat.txt")

	if len(c.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(c.Messages))
	}
	m := c.Messages[0]
	if m.Sender != "Sagar" {
		t.Errorf("sender = %q, want Sagar", m.Sender)
	}
	if m.Type != chat.TypeImage {
		t.Errorf("type = %q, want image", m.Type)
	}
	want := "IMG-20220205-WA0028.jpg (file attached)\nTamne pan aaje lai aavva ta ahi"
	if m.Content != want {
		t.Errorf("content = %q, want %q", m.Content, want)
	}
	if !m.Timestamp.Equal(time.Date(2022, 2, 6, 1, 0, 0, 0, time.Local)) {
		t.Errorf("timestamp = %v", m.Timestamp)
	}
}

// One line per grammar table entry; each must parse to the expected sender
// and instant.
func TestParsePatternCoverage(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		sender string
		want   time.Time
	}{
		{"bracketed seconds", "[25/12/2023, 10:30:45] Alice: hi", "Alice",
			time.Date(2023, 12, 25, 10, 30, 45, 0, time.Local)},
		{"bracketed meridiem", "[25/12/2023, 10:30:45 PM] Alice: hi", "Alice",
			time.Date(2023, 12, 25, 22, 30, 45, 0, time.Local)},
		{"dash 4-digit year", "25/12/2023, 10:30 - Bob: hi", "Bob",
			time.Date(2023, 12, 25, 10, 30, 0, 0, time.Local)},
		{"dash with seconds", "25/12/2023, 10:30:45 - Bob: hi", "Bob",
			time.Date(2023, 12, 25, 10, 30, 45, 0, time.Local)},
		{"two-digit year meridiem", "06/02/22, 1:00 pm - Carol: hi", "Carol",
			time.Date(2022, 2, 6, 13, 0, 0, 0, time.Local)},
		{"two-digit year", "06/02/22, 13:00 - Carol: hi", "Carol",
			time.Date(2022, 2, 6, 13, 0, 0, 0, time.Local)},
		{"dot separator", "25.12.2023, 10:30 - Dave: hi", "Dave",
			time.Date(2023, 12, 25, 10, 30, 0, 0, time.Local)},
	}

	p := New(DayFirst, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := p.Parse(tt.line, "chat.txt")
			if len(c.Messages) != 1 {
				t.Fatalf("got %d messages, want 1", len(c.Messages))
			}
			m := c.Messages[0]
			if m.Sender != tt.sender {
				t.Errorf("sender = %q, want %q", m.Sender, tt.sender)
			}
			if m.Content != "hi" {
				t.Errorf("content = %q, want hi", m.Content)
			}
			if !m.Timestamp.Equal(tt.want) {
				t.Errorf("timestamp = %v, want %v", m.Timestamp, tt.want)
			}
		})
	}
}

func TestParseSystemLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"bracketed", "[25/12/2023, 10:30:45] Messages are end-to-end encrypted", "Messages are end-to-end encrypted"},
		{"dash 4-digit year", "25/12/2023, 10:30 - Alice created this group", "Alice created this group"},
		{"two-digit year meridiem", "06/02/22, 1:00 am - You were added", "You were added"},
		{"two-digit year", "06/02/22, 13:00 - Bob left", "Bob left"},
	}

	p := New(DayFirst, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := p.Parse(tt.line, "chat.txt")
			if len(c.Messages) != 1 {
				t.Fatalf("got %d messages, want 1", len(c.Messages))
			}
			m := c.Messages[0]
			if m.Type != chat.TypeSystem {
				t.Errorf("type = %q, want system", m.Type)
			}
			if m.Sender != chat.SystemSender {
				t.Errorf("sender = %q, want System", m.Sender)
			}
			if m.Content != tt.want {
				t.Errorf("content = %q, want %q", m.Content, tt.want)
			}
		})
	}
}

// Sender lines must win over system lines: a "Name: text" line matches the
// message grammar even though the system grammar would also accept it.
func TestParseSenderBeatsSystem(t *testing.T) {
	c := New(DayFirst, nil).Parse("25/12/2023, 10:30 - Alice: created this group", "chat.txt")
	if len(c.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(c.Messages))
	}
	if c.Messages[0].Type == chat.TypeSystem {
		t.Error("sender line was misclassified as system")
	}
	if c.Messages[0].Sender != "Alice" {
		t.Errorf("sender = %q, want Alice", c.Messages[0].Sender)
	}
}

func TestParseDropsOrphanLines(t *testing.T) {
	input := "this line matches nothing\n[25/12/2023, 10:30:45] John: Hello"
	c := New(DayFirst, nil).Parse(input, "chat.txt")
	if len(c.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(c.Messages))
	}
	if strings.Contains(c.Messages[0].Content, "matches nothing") {
		t.Error("orphan line leaked into a message")
	}
}

func TestParseEmptyLogIsDegradedNotError(t *testing.T) {
	c := New(DayFirst, nil).Parse("nothing parseable here", "chat.txt")
	if c == nil {
		t.Fatal("Parse returned nil")
	}
	if len(c.Messages) != 0 {
		t.Errorf("got %d messages, want 0", len(c.Messages))
	}
	if c.LastMessage() != nil {
		t.Error("LastMessage should be nil for an empty chat")
	}
}

func TestParseMessagesSortedByTimestamp(t *testing.T) {
	// Out-of-order source lines; the terminal sort must fix the order.
	input := "[25/12/2023, 11:00:00] John: second\n[25/12/2023, 10:00:00] John: first"
	c := New(DayFirst, nil).Parse(input, "chat.txt")
	if len(c.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(c.Messages))
	}
	for i := 1; i < len(c.Messages); i++ {
		if c.Messages[i].Timestamp.Before(c.Messages[i-1].Timestamp) {
			t.Fatal("messages not sorted ascending by timestamp")
		}
	}
	if c.Messages[0].Content != "first" {
		t.Errorf("first message = %q, want %q", c.Messages[0].Content, "first")
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "06/02/22, 1:00 am - Sagar: IMG-20220205-WA0028.jpg (file attached)\ncaption line\n06/02/22, 1:05 am - Riya: ok"
	p := New(DayFirst, nil)
	a := p.Parse(input, "chat.txt")
	b := p.Parse(input, "chat.txt")
	if len(a.Messages) != len(b.Messages) {
		t.Fatalf("message counts differ: %d vs %d", len(a.Messages), len(b.Messages))
	}
	for i := range a.Messages {
		am, bm := a.Messages[i], b.Messages[i]
		if am.Sender != bm.Sender || am.Type != bm.Type || am.Content != bm.Content {
			t.Errorf("message %d differs between parses", i)
		}
	}
}

func TestChatName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WhatsApp Chat with Jane.txt", "Jane"},
		{"WhatsApp Chat - Family Group.txt", "Family Group"},
		{"_chat.txt", "_chat"},
		{"export", "export"},
	}
	for _, tt := range tests {
		if got := ChatName(tt.in); got != tt.want {
			t.Errorf("ChatName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
