package parse

import (
	"regexp"
	"strings"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
)

// Extension tables shared by the classifier and the archive extractor.
var (
	imageExts    = extSet("jpg", "jpeg", "png", "gif", "bmp", "webp", "svg", "tiff", "tif")
	videoExts    = extSet("mp4", "mov", "avi", "mkv", "flv", "webm", "3gp", "wmv", "m4v")
	audioExts    = extSet("mp3", "wav", "aac", "flac", "ogg", "m4a", "wma", "opus")
	documentExts = extSet("pdf", "doc", "docx", "txt", "rtf", "xls", "xlsx", "ppt", "pptx", "zip", "rar")
)

func extSet(exts ...string) map[string]bool {
	s := make(map[string]bool, len(exts))
	for _, e := range exts {
		s[e] = true
	}
	return s
}

// MediaTypeForExt maps a lowercase file extension (no dot) to a media
// category. Anything not in the image/video/audio tables is a document.
func MediaTypeForExt(ext string) chat.MediaType {
	switch {
	case imageExts[ext]:
		return chat.MediaImage
	case videoExts[ext]:
		return chat.MediaVideo
	case audioExts[ext]:
		return chat.MediaAudio
	default:
		return chat.MediaDocument
	}
}

// IsMediaExt reports whether the extension belongs to any media table.
func IsMediaExt(ext string) bool {
	return imageExts[ext] || videoExts[ext] || audioExts[ext] || documentExts[ext]
}

// attachedExtRe grabs the extension right before the "(file attached)"
// marker's opening parenthesis.
var attachedExtRe = regexp.MustCompile(`\.([a-zA-Z0-9]+)\s*\(`)

// Classify assigns a content category by checking markers in priority order:
// explicit "(file attached)" extensions first, then the legacy "omitted"
// placeholder phrases of older exports, then plain text.
func Classify(content string) chat.MessageType {
	lower := strings.ToLower(content)

	if strings.Contains(lower, "(file attached)") {
		if g := attachedExtRe.FindStringSubmatch(content); g != nil {
			ext := strings.ToLower(g[1])
			switch {
			case imageExts[ext]:
				return chat.TypeImage
			case videoExts[ext]:
				return chat.TypeVideo
			case audioExts[ext]:
				return chat.TypeAudio
			}
		}
		// Unrecognized or missing extension.
		return chat.TypeDocument
	}

	if strings.Contains(content, "<Media omitted>") ||
		strings.Contains(lower, "media omitted") ||
		strings.Contains(lower, "image omitted") ||
		strings.Contains(lower, "video omitted") {
		if strings.Contains(lower, "video") {
			return chat.TypeVideo
		}
		return chat.TypeImage
	}

	if strings.Contains(content, "<audio omitted>") ||
		strings.Contains(lower, "voice message") ||
		strings.Contains(lower, "audio omitted") {
		return chat.TypeAudio
	}

	if strings.Contains(content, "<document omitted>") ||
		strings.Contains(lower, "document omitted") ||
		strings.Contains(lower, "document") {
		return chat.TypeDocument
	}

	return chat.TypeText
}
