// Package importer orchestrates one import cycle: parse (and extract, for
// archives), link media, persist, then install the result as the single
// current chat. A failed import never disturbs the previously loaded chat.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/archive"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/bus"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/link"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/media"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/parse"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/status"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/store"
	"go.uber.org/zap"
)

// Importer owns the current-chat slot. Imports are serialized; the media
// handles of a superseded chat are released as part of installing its
// replacement.
type Importer struct {
	db        *store.DB
	arena     *media.Arena
	bus       *bus.Bus
	parser    *parse.Parser
	extractor *archive.Extractor
	linker    *link.Linker
	machine   *status.Machine
	logger    *zap.Logger

	mu      sync.Mutex
	current *chat.Chat
	gen     uint64
	byID    map[string]*chat.Media
}

// New creates an importer wired to the given collaborators. machine may be
// nil when no lifecycle tracking is wanted.
func New(db *store.DB, arena *media.Arena, b *bus.Bus, machine *status.Machine, order parse.DateOrder, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		db:        db,
		arena:     arena,
		bus:       b,
		parser:    parse.New(order, logger),
		extractor: archive.NewExtractor(arena, logger),
		linker:    link.New(logger),
		machine:   machine,
		logger:    logger,
		byID:      make(map[string]*chat.Media),
	}
}

func (im *Importer) setState(s status.State) {
	if im.machine == nil {
		return
	}
	if err := im.machine.Transition(s); err != nil {
		im.logger.Warn("status transition rejected", zap.Error(err))
	}
}

// ImportText parses a plain-text export and installs it as the current
// chat. A log that yields zero messages is a degraded but valid result.
func (im *Importer) ImportText(ctx context.Context, filename, content string) (*chat.Chat, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.setState(status.Importing)
	gen := im.arena.NextGeneration()
	c := im.parser.Parse(content, filename)
	return im.install(ctx, c, nil, gen)
}

// ImportArchive extracts a ZIP export, parses its transcript, links the
// cataloged media into the messages and installs the result. The archive
// must contain an authoritative log entry (archive.ErrNoChatLog otherwise);
// on any failure before installation the new generation's handles are
// released and the previous chat stays authoritative.
func (im *Importer) ImportArchive(ctx context.Context, r io.ReaderAt, size int64) (*chat.Chat, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.setState(status.Importing)
	gen := im.arena.NextGeneration()
	res, err := im.extractor.Extract(r, size, gen)
	if err != nil {
		im.arena.ReleaseGeneration(gen)
		im.setState(status.Failed)
		return nil, err
	}

	c := im.parser.Parse(res.LogText, res.LogName)
	im.linker.Link(c, res.Catalog)

	blobs := make([]store.MediaBlob, 0, res.Catalog.Len())
	for _, m := range res.Catalog.Items() {
		data, err := im.arena.Open(m.Handle)
		if err != nil {
			im.arena.ReleaseGeneration(gen)
			im.setState(status.Failed)
			return nil, fmt.Errorf("read media %s: %w", m.Name, err)
		}
		blobs = append(blobs, store.MediaBlob{Media: *m, Data: data})
	}

	return im.install(ctx, c, blobs, gen)
}

// ImportFile imports a .zip archive or a plain-text export from disk.
func (im *Importer) ImportFile(ctx context.Context, path string) (*chat.Chat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(name), ".zip") {
		return im.ImportArchive(ctx, bytes.NewReader(data), int64(len(data)))
	}
	return im.ImportText(ctx, name, string(data))
}

// install persists the chat and swaps it into the current slot, releasing
// the superseded generation's handles. Called with the lock held.
func (im *Importer) install(_ context.Context, c *chat.Chat, blobs []store.MediaBlob, gen uint64) (*chat.Chat, error) {
	if err := im.db.SaveChat(c, blobs); err != nil {
		im.arena.ReleaseGeneration(gen)
		im.setState(status.Failed)
		return nil, fmt.Errorf("save chat: %w", err)
	}

	if im.gen != 0 {
		released := im.arena.ReleaseGeneration(im.gen)
		im.logger.Info("released superseded media handles", zap.Int("count", released))
	}
	im.current = c
	im.gen = gen
	im.byID = make(map[string]*chat.Media)
	for i := range blobs {
		m := blobs[i].Media
		im.byID[m.ID] = &m
	}

	im.logger.Info("chat imported",
		zap.String("chat", c.Name),
		zap.Int("messages", len(c.Messages)),
		zap.Int("media", len(blobs)))
	im.setState(status.Ready)
	if im.bus != nil {
		im.bus.Publish("chat.imported", c)
	}
	return c, nil
}

// Load rehydrates the current chat from the store on startup, reissuing
// arena handles for its media blobs.
func (im *Importer) Load(_ context.Context) (*chat.Chat, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	c, blobs, err := im.db.LoadChat()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	gen := im.arena.NextGeneration()
	im.byID = make(map[string]*chat.Media)
	for i := range blobs {
		blobs[i].Media.Handle = im.arena.Acquire(gen, blobs[i].Data)
		im.byID[blobs[i].Media.ID] = &blobs[i].Media
	}
	im.current = c
	im.gen = gen

	im.logger.Info("chat loaded",
		zap.String("chat", c.Name),
		zap.Int("messages", len(c.Messages)),
		zap.Int("media", len(blobs)))
	im.setState(status.Importing)
	im.setState(status.Ready)
	if im.bus != nil {
		im.bus.Publish("chat.imported", c)
	}
	return c, nil
}

// Clear empties the store slot and revokes every live media handle.
func (im *Importer) Clear(_ context.Context) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	if err := im.db.Clear(); err != nil {
		return err
	}
	if im.gen != 0 {
		im.arena.ReleaseGeneration(im.gen)
	}
	im.current = nil
	im.gen = 0
	im.byID = make(map[string]*chat.Media)
	im.setState(status.Empty)
	if im.bus != nil {
		im.bus.Publish("chat.cleared", nil)
	}
	return nil
}

// Current returns the loaded chat, or nil when the slot is empty.
func (im *Importer) Current() *chat.Chat {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.current
}

// Media resolves a media record of the current chat by ID.
func (im *Importer) Media(id string) (*chat.Media, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	m, ok := im.byID[id]
	return m, ok
}
