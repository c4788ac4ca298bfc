package chat

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// New builds a Chat aggregate from parsed messages, deriving participants,
// group status and the creation/update timestamps. Messages are stable-sorted
// ascending by timestamp; source order breaks ties.
func New(name string, messages []Message, importedAt time.Time) *Chat {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	var participants []string
	seen := make(map[string]bool)
	for _, m := range messages {
		if m.Sender == SystemSender || seen[m.Sender] {
			continue
		}
		seen[m.Sender] = true
		participants = append(participants, m.Sender)
	}

	createdAt := importedAt
	updatedAt := importedAt
	if len(messages) > 0 {
		createdAt = messages[0].Timestamp
		updatedAt = messages[len(messages)-1].Timestamp
	}

	return &Chat{
		ID:           uuid.NewString(),
		Name:         name,
		Messages:     messages,
		Participants: participants,
		IsGroup:      len(participants) > 2,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}
