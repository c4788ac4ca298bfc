package parse

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
	"go.uber.org/zap"
)

// Parser converts raw export text into a Chat aggregate. It holds no state
// between calls; the pending-message accumulator lives on the stack of Parse
// so the parser is reentrant.
type Parser struct {
	order  DateOrder
	logger *zap.Logger
}

// New creates a parser. order resolves the slash-date ambiguity; a nil
// logger disables unmatched-line logging.
func New(order DateOrder, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if order == "" {
		order = DayFirst
	}
	return &Parser{order: order, logger: logger}
}

// Parse runs the line state machine over content and returns the derived
// Chat. filename supplies the chat display name. Unrecognized lines attach
// to the pending message as continuations or, with nothing pending, are
// dropped with a debug log. A chat with zero parsed messages is a valid
// degraded result, not an error.
func (p *Parser) Parse(content, filename string) *chat.Chat {
	var messages []chat.Message
	var pending *chat.Message

	flush := func() {
		if pending != nil {
			messages = append(messages, *pending)
			pending = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m, ok := matchAny(messagePatterns, line, true); ok {
			flush()
			text := strings.TrimSpace(m.content)
			pending = &chat.Message{
				ID:        uuid.NewString(),
				Timestamp: Timestamp(m.date, m.clock, m.meridiem, p.order),
				Sender:    strings.TrimSpace(m.sender),
				Content:   text,
				Type:      Classify(text),
			}
			continue
		}

		if m, ok := matchAny(systemPatterns, line, false); ok {
			flush()
			pending = &chat.Message{
				ID:        uuid.NewString(),
				Timestamp: Timestamp(m.date, m.clock, m.meridiem, p.order),
				Sender:    chat.SystemSender,
				Content:   strings.TrimSpace(m.content),
				Type:      chat.TypeSystem,
			}
			continue
		}

		if pending != nil {
			// Continuation: captions and multi-line messages keep their
			// interior spacing.
			pending.Content += "\n" + line
			continue
		}
		p.logger.Debug("dropped unmatched line", zap.String("line", line))
	}
	flush()

	return chat.New(ChatName(filename), messages, time.Now())
}

func matchAny(patterns []linePattern, line string, withSender bool) (lineMatch, bool) {
	for _, pat := range patterns {
		if m, ok := pat.match(line, withSender); ok {
			return m, true
		}
	}
	return lineMatch{}, false
}

// ChatName derives a display name from the export filename, stripping the
// extension and the standard WhatsApp export prefixes.
func ChatName(filename string) string {
	name := strings.TrimSuffix(filename, ".txt")
	name = strings.TrimPrefix(name, "WhatsApp Chat with ")
	name = strings.TrimPrefix(name, "WhatsApp Chat - ")
	return name
}
