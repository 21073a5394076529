package domain

import "strings"

type EventType string

const (
	EventPayment    EventType = "payment"
	EventExpense    EventType = "expense"
	EventInspection EventType = "inspection"
	EventMilestone  EventType = "milestone"
)

// ValidEventTypes is the canonical set of accepted event type strings.
var ValidEventTypes = map[string]bool{
	"payment": true, "expense": true, "inspection": true, "milestone": true,
}

// IsMonetary reports whether events of this type carry an amount that feeds
// the financial roll-up.
func (t EventType) IsMonetary() bool {
	return t == EventPayment || t == EventExpense
}

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaDocument MediaType = "document"
)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
}

// MediaTypeForFilename classifies a file by extension.
func MediaTypeForFilename(name string) MediaType {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return MediaDocument
	}
	if imageExtensions[strings.ToLower(name[idx+1:])] {
		return MediaImage
	}
	return MediaDocument
}
