package language

import "errors"

// SymbolVariable is the variable name symbol providers contribute.
const SymbolVariable = "SYMBOL"

// ErrNoOutline is returned when a symbol provider has no outline function.
var ErrNoOutline = errors.New("no outline function")

// OutlineEntry is a named symbol spanning a byte range of the buffer.
// Entries may nest; the innermost entry containing a position wins.
type OutlineEntry struct {
	// Name is the symbol name.
	Name string

	// Start and End are byte offsets of the symbol's full extent.
	Start int
	End   int
}

// OutlineFunc extracts symbol entries from buffer text. The language
// syntax subsystem supplies this; the task system only consumes it.
type OutlineFunc func(text string) []OutlineEntry

// SymbolProvider contributes the name of the symbol enclosing the
// selection start as the SYMBOL task variable.
type SymbolProvider struct {
	// Outline extracts symbols from buffer text.
	Outline OutlineFunc
}

// NewSymbolProvider creates a symbol provider backed by an outline function.
func NewSymbolProvider(outline OutlineFunc) *SymbolProvider {
	return &SymbolProvider{Outline: outline}
}

// BuildContext returns {SYMBOL: name} for the innermost outline entry
// containing the selection start, or an empty map if no entry contains it.
func (p *SymbolProvider) BuildContext(loc Location) (map[string]string, error) {
	if p.Outline == nil {
		return nil, ErrNoOutline
	}

	entries := p.Outline(loc.Text)

	var best *OutlineEntry
	for i := range entries {
		entry := &entries[i]
		if loc.StartOffset < entry.Start || loc.StartOffset >= entry.End {
			continue
		}
		if best == nil || (entry.End-entry.Start) < (best.End-best.Start) {
			best = entry
		}
	}

	if best == nil {
		return map[string]string{}, nil
	}
	return map[string]string{SymbolVariable: best.Name}, nil
}
