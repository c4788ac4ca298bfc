package archive

import (
	"regexp"
	"strings"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
)

// Catalog maps normalized filename keys to extracted media records. Several
// keys can reach the same record; the record itself is never duplicated.
type Catalog struct {
	byKey map[string]*chat.Media
	items []*chat.Media
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[string]*chat.Media)}
}

// Add registers a media record under its exact filename, its lowercase
// form and a cleaned variant, to maximize lookup success against noisy
// in-text references.
func (c *Catalog) Add(m *chat.Media) {
	c.items = append(c.items, m)
	c.byKey[m.Name] = m
	c.byKey[strings.ToLower(m.Name)] = m
	if clean := CleanFileName(m.Name); clean != m.Name {
		c.byKey[clean] = m
	}
}

// Get looks up a record by any of its keys.
func (c *Catalog) Get(key string) (*chat.Media, bool) {
	m, ok := c.byKey[key]
	return m, ok
}

// Items returns the distinct records in insertion order.
func (c *Catalog) Items() []*chat.Media {
	return c.items
}

// Len reports the number of distinct records.
func (c *Catalog) Len() int {
	return len(c.items)
}

var (
	specialChars = regexp.MustCompile(`[^\w\s.-]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// CleanFileName strips characters outside word/space/dot/hyphen and
// collapses runs of whitespace.
func CleanFileName(name string) string {
	name = specialChars.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
