// Package editor provides the minimal editing-surface contract the task
// context resolver consumes: buffer positions, selections, and the mapping
// between byte offsets and line/column points.
package editor

// Surface is the capability contract an active editing surface exposes to
// the task system. Implementations must return consistent values for the
// duration of a single resolution call.
type Surface interface {
	// Selection returns the newest (primary) selection.
	Selection() Selection

	// OffsetToPoint converts a byte offset to a 0-indexed point.
	// Offsets outside the buffer are clamped.
	OffsetToPoint(offset ByteOffset) Point

	// TextForRange returns the literal text covered by the selection.
	TextForRange(sel Selection) (string, error)

	// Content returns the full buffer text.
	Content() string

	// Path returns the absolute path of the backing local file, or
	// empty for unsaved/virtual buffers.
	Path() string

	// LanguageName returns the buffer's language name, or empty if
	// no language is assigned.
	LanguageName() string
}
