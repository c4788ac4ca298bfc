// Package archive extracts WhatsApp export ZIPs: it isolates the single
// authoritative chat transcript and catalogs every media entry.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/media"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/parse"
	"go.uber.org/zap"
)

// ErrNoChatLog is returned when an archive contains no recognizable chat
// transcript. It aborts the import; no partial state is installed.
var ErrNoChatLog = errors.New("archive: no chat export text file found")

// Result is one extracted archive: the transcript plus the media catalog.
// All catalog handles belong to the generation passed to Extract.
type Result struct {
	LogName string
	LogText string
	Catalog *Catalog
}

// Extractor walks archive entries, materializing media blobs into the arena.
type Extractor struct {
	arena  *media.Arena
	logger *zap.Logger
}

// NewExtractor creates an extractor backed by the given arena.
func NewExtractor(arena *media.Arena, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{arena: arena, logger: logger}
}

// Extract reads a ZIP archive in a single traversal. The first entry that
// looks like a chat transcript becomes the authoritative log; every other
// entry with a known media extension is decompressed and cataloged under
// its filename variants. Directories are ignored.
func (e *Extractor) Extract(r io.ReaderAt, size int64, generation uint64) (*Result, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	res := &Result{Catalog: NewCatalog()}
	logFound := false
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)

		if !logFound && isChatLog(name, f.Name) {
			data, err := readEntry(f)
			if err != nil {
				return nil, fmt.Errorf("read log entry %q: %w", f.Name, err)
			}
			res.LogName = name
			res.LogText = string(data)
			logFound = true
			e.logger.Info("found chat log", zap.String("entry", f.Name))
			continue
		}

		ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
		if ext == "" || !parse.IsMediaExt(ext) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read media entry %q: %w", f.Name, err)
		}
		res.Catalog.Add(&chat.Media{
			ID:     uuid.NewString(),
			Name:   name,
			Type:   parse.MediaTypeForExt(ext),
			Size:   int64(len(data)),
			Handle: e.arena.Acquire(generation, data),
		})
	}

	if !logFound {
		return nil, ErrNoChatLog
	}
	e.logger.Info("archive extracted",
		zap.String("log", res.LogName),
		zap.Int("media", res.Catalog.Len()))
	return res, nil
}

// isChatLog recognizes the authoritative transcript: a .txt entry named
// after the export ("whatsapp"/"chat"), or the iOS-style _chat.txt path.
func isChatLog(name, fullPath string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".txt") {
		return false
	}
	return strings.Contains(lower, "whatsapp") ||
		strings.Contains(lower, "chat") ||
		strings.Contains(fullPath, "_chat.txt")
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
