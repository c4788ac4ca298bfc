package chat

import "time"

// groupGap is the largest silence between two messages that still keeps
// them in the same group. A gap of exactly groupGap does not split.
const groupGap = 5 * time.Minute

// OutgoingSender is the sender name treated as the local user.
const OutgoingSender = "You"

// GroupMessages folds an ordered message list into consecutive-sender
// display groups. A new group starts on a sender change, on any system
// message boundary, or when the gap since the group's latest message
// exceeds groupGap.
func GroupMessages(messages []Message) []MessageGroup {
	if len(messages) == 0 {
		return nil
	}

	var groups []MessageGroup
	var cur *MessageGroup

	for _, m := range messages {
		isSystem := m.IsSystem()
		split := cur == nil ||
			cur.Sender != m.Sender ||
			isSystem || cur.IsSystem ||
			m.Timestamp.Sub(cur.Timestamp) > groupGap

		if split {
			groups = append(groups, MessageGroup{
				Sender:     m.Sender,
				IsOutgoing: m.Sender == OutgoingSender,
				IsSystem:   isSystem,
				Messages:   []Message{m},
				Timestamp:  m.Timestamp,
			})
			cur = &groups[len(groups)-1]
			continue
		}
		cur.Messages = append(cur.Messages, m)
		cur.Timestamp = m.Timestamp
	}
	return groups
}

// ShowSenderName reports whether a group's sender label should be shown:
// only in group chats, and never for outgoing or system groups.
func ShowSenderName(g MessageGroup, isGroupChat bool) bool {
	return isGroupChat && !g.IsOutgoing && !g.IsSystem
}
