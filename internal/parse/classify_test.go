package parse

import (
	"testing"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    chat.MessageType
	}{
		{"plain text", "Hello there!", chat.TypeText},
		{"attached image", "IMG-20220205-WA0028.jpg (file attached)", chat.TypeImage},
		{"attached image uppercase ext", "PHOTO.JPG (file attached)", chat.TypeImage},
		{"attached video", "VID-20220205-WA0001.mp4 (file attached)", chat.TypeVideo},
		{"attached audio", "AUD-20220205-WA0003.opus (file attached)", chat.TypeAudio},
		{"attached pdf", "report.pdf (file attached)", chat.TypeDocument},
		{"attached unknown extension", "backup.xyz (file attached)", chat.TypeDocument},
		{"attached no extension", "something (file attached)", chat.TypeDocument},
		{"media omitted literal", "<Media omitted>", chat.TypeImage},
		{"media omitted with video hint", "<Media omitted> video call", chat.TypeVideo},
		{"image omitted", "image omitted", chat.TypeImage},
		{"video omitted", "video omitted", chat.TypeVideo},
		{"audio omitted literal", "<audio omitted>", chat.TypeAudio},
		{"voice message", "Voice message (0:42)", chat.TypeAudio},
		{"document omitted literal", "<document omitted>", chat.TypeDocument},
		{"bare document mention", "check the document", chat.TypeDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.content); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestMediaTypeForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want chat.MediaType
	}{
		{"jpg", chat.MediaImage},
		{"webp", chat.MediaImage},
		{"mp4", chat.MediaVideo},
		{"3gp", chat.MediaVideo},
		{"opus", chat.MediaAudio},
		{"pdf", chat.MediaDocument},
		{"weird", chat.MediaDocument},
	}
	for _, tt := range tests {
		if got := MediaTypeForExt(tt.ext); got != tt.want {
			t.Errorf("MediaTypeForExt(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestIsMediaExt(t *testing.T) {
	for _, ext := range []string{"jpg", "mp4", "opus", "pdf", "zip"} {
		if !IsMediaExt(ext) {
			t.Errorf("IsMediaExt(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{"exe", "go", ""} {
		if IsMediaExt(ext) {
			t.Errorf("IsMediaExt(%q) = true, want false", ext)
		}
	}
}
