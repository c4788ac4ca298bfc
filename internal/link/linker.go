// Package link pairs cataloged media blobs with the placeholder messages
// that reference them.
package link

import (
	"regexp"
	"strings"
	"time"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/archive"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
	"go.uber.org/zap"
)

// linkWindow is how far a filename-embedded date may sit from a message
// timestamp and still count as the same event.
const linkWindow = 5 * time.Minute

// Filename-shaped substrings inside message content, plain and dashed.
var filenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[a-zA-Z0-9_-]+\.[a-zA-Z0-9]+`),
	regexp.MustCompile(`[a-zA-Z0-9_-]+\s*-\s*[a-zA-Z0-9_-]+\.[a-zA-Z0-9]+`),
}

// Filename-embedded dates, e.g. IMG-20220205-WA0028.jpg or 2022-02-05.
var dateInNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`),
	regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
}

// Linker attaches catalog entries to non-text messages.
type Linker struct {
	logger *zap.Logger
}

// New creates a linker. A nil logger disables link tracing.
func New(logger *zap.Logger) *Linker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linker{logger: logger}
}

// Link walks the chat's messages and, for every media-typed one, tries the
// filename-in-content probe first and the timestamp-proximity probe second.
// A successful link also derives a caption from the non-placeholder lines.
// Messages stay untouched when no catalog entry matches.
func (l *Linker) Link(c *chat.Chat, catalog *archive.Catalog) {
	for i := range c.Messages {
		msg := &c.Messages[i]
		if msg.Type == chat.TypeText || msg.Type == chat.TypeSystem {
			continue
		}
		m := l.find(msg, catalog)
		if m == nil {
			continue
		}
		msg.Media = m
		msg.Caption = extractCaption(msg.Content)
		l.logger.Debug("linked media",
			zap.String("file", m.Name),
			zap.String("message", msg.ID))
	}
}

func (l *Linker) find(msg *chat.Message, catalog *archive.Catalog) *chat.Media {
	content := strings.ToLower(msg.Content)

	for _, pat := range filenamePatterns {
		for _, candidate := range pat.FindAllString(content, -1) {
			candidate = strings.TrimSpace(candidate)
			if m, ok := catalog.Get(candidate); ok {
				return m
			}
			if m, ok := catalog.Get(strings.ToLower(candidate)); ok {
				return m
			}
		}
	}

	for _, m := range catalog.Items() {
		ts, ok := dateFromName(m.Name)
		if !ok {
			continue
		}
		gap := msg.Timestamp.Sub(ts)
		if gap < 0 {
			gap = -gap
		}
		if gap <= linkWindow && typeMatches(msg.Type, m.Type) {
			return m
		}
	}
	return nil
}

// dateFromName extracts an embedded date as a midnight instant.
func dateFromName(name string) (time.Time, bool) {
	for _, pat := range dateInNamePatterns {
		g := pat.FindStringSubmatch(name)
		if g == nil {
			continue
		}
		t := time.Date(atoi(g[1]), time.Month(atoi(g[2])), atoi(g[3]), 0, 0, 0, 0, time.Local)
		return t, true
	}
	return time.Time{}, false
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// typeMatches accepts an exact category match, plus a loose fallback where
// a document-classified message may claim any media kind.
func typeMatches(mt chat.MessageType, kind chat.MediaType) bool {
	if string(mt) == string(kind) {
		return true
	}
	return mt == chat.TypeDocument &&
		(kind == chat.MediaImage || kind == chat.MediaVideo || kind == chat.MediaAudio)
}

// extractCaption strips the "omitted" placeholder lines and keeps whatever
// text remains, if any and if different from the full content.
func extractCaption(content string) string {
	if !strings.Contains(strings.ToLower(content), "omitted") {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(strings.ToLower(line), "omitted") || strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	caption := strings.Join(kept, "\n")
	if caption == "" || strings.TrimSpace(caption) == strings.TrimSpace(content) {
		return ""
	}
	return caption
}
