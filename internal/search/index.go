// Package search provides a rebuildable fuzzy full-text index over the
// loaded chat corpus with match-range highlighting.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/bus"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
	"go.uber.org/zap"
)

// Matching parameters, mirroring the viewer's search tuning: normalized
// edit distance at most threshold, queries shorter than minMatchLength
// never match.
const (
	threshold      = 0.3
	minMatchLength = 2
)

// Field weights.
const (
	weightContent  = 0.8
	weightSender   = 0.6
	weightChatName = 0.4
)

// record is one indexed message with its chat context.
type record struct {
	chatID   string
	chatName string
	message  chat.Message
}

// Index is a weighted fuzzy index over all messages in scope. It supports
// full rebuild only; Start subscribes it to chat lifecycle events so a new
// import or a clear triggers the rebuild.
type Index struct {
	mu      sync.RWMutex
	records []record

	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// NewIndex creates an empty index.
func NewIndex(b *bus.Bus, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{bus: b, logger: logger}
}

// Build replaces the index contents with the messages of the given chats.
func (ix *Index) Build(chats []*chat.Chat) {
	var records []record
	for _, c := range chats {
		for _, m := range c.Messages {
			records = append(records, record{chatID: c.ID, chatName: c.Name, message: m})
		}
	}
	ix.mu.Lock()
	ix.records = records
	ix.mu.Unlock()
	ix.logger.Info("search index built", zap.Int("messages", len(records)))
}

// Start subscribes to "chat." events and rebuilds on import or clear.
func (ix *Index) Start(ctx context.Context) {
	if ix.bus == nil {
		return
	}
	ctx, ix.cancel = context.WithCancel(ctx)
	ch, unsub := ix.bus.Subscribe("chat.", 16)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				switch evt.Kind {
				case "chat.imported":
					if c, ok := evt.Payload.(*chat.Chat); ok {
						ix.Build([]*chat.Chat{c})
					}
				case "chat.cleared":
					ix.Build(nil)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the event subscription.
func (ix *Index) Stop() {
	if ix.cancel != nil {
		ix.cancel()
	}
}

// Search runs a fuzzy query over the index. An empty or whitespace-only
// query returns no results without touching the index. Hits are ordered by
// descending weighted score; content-field match ranges are wrapped in the
// highlight markers, other hits keep their content verbatim.
func (ix *Index) Search(query string) []chat.SearchResult {
	query = strings.TrimSpace(query)
	if len(query) < minMatchLength {
		return nil
	}
	q := strings.ToLower(query)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	type scored struct {
		result chat.SearchResult
		score  float64
	}
	var hits []scored

	for _, r := range ix.records {
		contentScore, ranges := match(r.message.Content, q)
		senderScore, _ := match(r.message.Sender, q)
		nameScore, _ := match(r.chatName, q)

		score := contentScore * weightContent
		if s := senderScore * weightSender; s > score {
			score = s
		}
		if s := nameScore * weightChatName; s > score {
			score = s
		}
		if score == 0 {
			continue
		}

		highlighted := r.message.Content
		if len(ranges) > 0 {
			highlighted = Highlight(r.message.Content, ranges)
		}
		hits = append(hits, scored{
			result: chat.SearchResult{
				ChatID:             r.chatID,
				ChatName:           r.chatName,
				Message:            r.message,
				HighlightedContent: highlighted,
			},
			score: score,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	results := make([]chat.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results
}

// match slides approximate windows of the query over text and returns the
// best similarity (0 when below threshold) plus the inclusive [start,end]
// byte ranges of every window within threshold.
func match(text, q string) (float64, [][2]int) {
	if text == "" {
		return 0, nil
	}
	lower := strings.ToLower(text)

	best := 0.0
	var ranges [][2]int
	// Window widths one off either side of the query length tolerate
	// insertions and deletions at the window boundary.
	for _, w := range []int{len(q) - 1, len(q), len(q) + 1} {
		if w < minMatchLength || w > len(lower) {
			continue
		}
		for start := 0; start+w <= len(lower); start++ {
			d := levenshtein.ComputeDistance(q, lower[start:start+w])
			max := len(q)
			if w > max {
				max = w
			}
			norm := float64(d) / float64(max)
			if norm > threshold {
				continue
			}
			if sim := 1 - norm; sim > best {
				best = sim
			}
			ranges = append(ranges, [2]int{start, start + w - 1})
		}
	}
	return best, mergeRanges(ranges)
}

// mergeRanges sorts ranges by start offset and coalesces overlapping or
// adjacent ones so highlighting never nests markers.
func mergeRanges(ranges [][2]int) [][2]int {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] < ranges[j][0] })
	merged := [][2]int{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r[0] <= last[1]+1 {
			if r[1] > last[1] {
				last[1] = r[1]
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
