package editor

import (
	"errors"
	"strings"
	"sync"
)

// ErrRangeOutOfBounds is returned when a selection does not map into the buffer.
var ErrRangeOutOfBounds = errors.New("range out of bounds")

// Buffer is an in-memory text buffer implementing Surface.
// It holds enough editing state for task context resolution: content,
// the primary selection, an optional backing file path, and a language name.
type Buffer struct {
	mu        sync.RWMutex
	content   string
	path      string
	language  string
	selection Selection
}

// NewBuffer creates a buffer with the given content.
func NewBuffer(content string) *Buffer {
	return &Buffer{content: content}
}

// SetPath sets the absolute path of the backing local file.
func (b *Buffer) SetPath(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = path
}

// Path returns the backing file path, or empty for virtual buffers.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// SetLanguage assigns a language name to the buffer.
func (b *Buffer) SetLanguage(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.language = name
}

// LanguageName returns the buffer's language name.
func (b *Buffer) LanguageName() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.language
}

// Content returns the full buffer text.
func (b *Buffer) Content() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.content))
}

// SetSelection sets the primary selection. Offsets are clamped to the buffer.
func (b *Buffer) SetSelection(sel Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = b.clamp(sel)
}

// Select is a convenience for SetSelection with raw offsets.
func (b *Buffer) Select(start, end ByteOffset) {
	b.SetSelection(Selection{Start: start, End: end})
}

// Selection returns the primary selection.
func (b *Buffer) Selection() Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection
}

// OffsetToPoint converts a byte offset to a 0-indexed point.
// Offsets outside the buffer are clamped to the buffer bounds.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset > ByteOffset(len(b.content)) {
		offset = ByteOffset(len(b.content))
	}

	prefix := b.content[:offset]
	line := strings.Count(prefix, "\n")
	column := int(offset)
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		column = int(offset) - idx - 1
	}
	return Point{Line: uint32(line), Column: uint32(column)}
}

// PointToOffset converts a 0-indexed point to a byte offset.
// Points past the end of a line or buffer are clamped.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset := 0
	for line := uint32(0); line < p.Line; line++ {
		idx := strings.IndexByte(b.content[offset:], '\n')
		if idx < 0 {
			return ByteOffset(len(b.content))
		}
		offset += idx + 1
	}

	lineEnd := len(b.content)
	if idx := strings.IndexByte(b.content[offset:], '\n'); idx >= 0 {
		lineEnd = offset + idx
	}

	offset += int(p.Column)
	if offset > lineEnd {
		offset = lineEnd
	}
	return ByteOffset(offset)
}

// TextForRange returns the text covered by the selection.
func (b *Buffer) TextForRange(sel Selection) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sel = sel.Normalized()
	if sel.Start < 0 || sel.End > ByteOffset(len(b.content)) {
		return "", ErrRangeOutOfBounds
	}
	return b.content[sel.Start:sel.End], nil
}

// clamp clamps a selection to the buffer bounds. Caller holds the lock.
func (b *Buffer) clamp(sel Selection) Selection {
	limit := ByteOffset(len(b.content))
	if sel.Start < 0 {
		sel.Start = 0
	}
	if sel.End < 0 {
		sel.End = 0
	}
	if sel.Start > limit {
		sel.Start = limit
	}
	if sel.End > limit {
		sel.End = limit
	}
	return sel
}
