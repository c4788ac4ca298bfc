package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
)

// MediaBlob pairs a media record with its binary content for persistence.
// Handles are runtime-only and are reissued when a chat is loaded.
type MediaBlob struct {
	Media chat.Media
	Data  []byte
}

// SaveChat replaces the current chat slot with c and its media blobs in one
// transaction. The previous chat, if any, is removed as part of the same
// transaction, so a failure leaves the old state in place.
func (db *DB) SaveChat(c *chat.Chat, blobs []MediaBlob) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Single-chat slot: wipe everything first.
	for _, table := range []string{"messages", "media", "chats"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO chats (id, name, is_group, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.IsGroup, c.CreatedAt.UnixMilli(), c.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	for _, b := range blobs {
		_, err = tx.Exec(`
			INSERT INTO media (id, chat_id, name, type, size, data)
			VALUES (?, ?, ?, ?, ?, ?)`,
			b.Media.ID, c.ID, b.Media.Name, string(b.Media.Type), b.Media.Size, b.Data)
		if err != nil {
			return fmt.Errorf("insert media %s: %w", b.Media.Name, err)
		}
	}

	for seq, m := range c.Messages {
		var mediaID sql.NullString
		if m.Media != nil {
			mediaID = sql.NullString{String: m.Media.ID, Valid: true}
		}
		_, err = tx.Exec(`
			INSERT INTO messages (id, chat_id, timestamp, sender, content, type, media_id, caption, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, c.ID, m.Timestamp.UnixMilli(), m.Sender, m.Content, string(m.Type), mediaID, m.Caption, seq)
		if err != nil {
			return fmt.Errorf("insert message %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// LoadChat returns the persisted chat with its media blobs, or nil when the
// slot is empty. Media pointers on messages are rewired to the returned
// blob records; callers reissue arena handles for them.
func (db *DB) LoadChat() (*chat.Chat, []MediaBlob, error) {
	var c chat.Chat
	var createdAt, updatedAt int64
	err := db.QueryRow(`SELECT id, name, is_group, created_at, updated_at FROM chats`).
		Scan(&c.ID, &c.Name, &c.IsGroup, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load chat: %w", err)
	}
	c.CreatedAt = time.UnixMilli(createdAt).Local()
	c.UpdatedAt = time.UnixMilli(updatedAt).Local()

	blobs, byID, err := db.loadMedia(c.ID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.Query(`
		SELECT id, timestamp, sender, content, type, media_id, caption
		FROM messages WHERE chat_id = ? ORDER BY seq`, c.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[string]bool)
	for rows.Next() {
		var m chat.Message
		var ts int64
		var mediaID sql.NullString
		var typ string
		if err := rows.Scan(&m.ID, &ts, &m.Sender, &m.Content, &typ, &mediaID, &m.Caption); err != nil {
			return nil, nil, fmt.Errorf("scan message: %w", err)
		}
		m.Timestamp = time.UnixMilli(ts).Local()
		m.Type = chat.MessageType(typ)
		if mediaID.Valid {
			m.Media = byID[mediaID.String]
		}
		c.Messages = append(c.Messages, m)
		if m.Sender != chat.SystemSender && !seen[m.Sender] {
			seen[m.Sender] = true
			c.Participants = append(c.Participants, m.Sender)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}

	return &c, blobs, nil
}

func (db *DB) loadMedia(chatID string) ([]MediaBlob, map[string]*chat.Media, error) {
	rows, err := db.Query(`SELECT id, name, type, size, data FROM media WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("load media: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blobs []MediaBlob
	byID := make(map[string]*chat.Media)
	for rows.Next() {
		var b MediaBlob
		var typ string
		if err := rows.Scan(&b.Media.ID, &b.Media.Name, &typ, &b.Media.Size, &b.Data); err != nil {
			return nil, nil, fmt.Errorf("scan media: %w", err)
		}
		b.Media.Type = chat.MediaType(typ)
		blobs = append(blobs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load media: %w", err)
	}
	for i := range blobs {
		byID[blobs[i].Media.ID] = &blobs[i].Media
	}
	return blobs, byID, nil
}

// Clear empties the chat slot and its media side table.
func (db *DB) Clear() error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, table := range []string{"messages", "media", "chats"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}
