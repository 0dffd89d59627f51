// Package language provides per-language task context providers.
//
// A context provider contributes extra task variables derived from the
// current editing position (for example, the name of the symbol enclosing
// the cursor). Providers are registered per language name and invoked by
// the task context resolver; a provider failure degrades to "no extra
// variables" at the resolution layer.
package language

import (
	"errors"
	"sync"
)

// ErrNotRegistered is returned when a language is not in the registry.
var ErrNotRegistered = errors.New("language not registered")

// Location describes the editing position a provider builds context from.
// Offsets are byte offsets into Text; Row and Column are 1-based.
type Location struct {
	// File is the absolute path of the file, or empty for virtual buffers.
	File string

	// Text is the full buffer content.
	Text string

	// StartOffset and EndOffset delimit the primary selection.
	StartOffset int
	EndOffset   int

	// Row and Column are the 1-based position of the selection start.
	Row    int
	Column int
}

// ContextProvider contributes language-specific task variables.
type ContextProvider interface {
	// BuildContext returns extra variable name/value pairs for the
	// location. Returning an error means no extra variables; callers
	// must not treat it as fatal.
	BuildContext(loc Location) (map[string]string, error)
}

// Language describes a registered language.
type Language struct {
	// Name is the language name (e.g. "rust", "typescript").
	Name string

	// Provider is the optional context provider for the language.
	Provider ContextProvider
}

// Registry holds registered languages keyed by name.
type Registry struct {
	mu    sync.RWMutex
	langs map[string]Language
}

// NewRegistry creates an empty language registry.
func NewRegistry() *Registry {
	return &Registry{langs: make(map[string]Language)}
}

// Register adds or replaces a language.
func (r *Registry) Register(lang Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.langs[lang.Name] = lang
}

// Get returns the language with the given name.
func (r *Registry) Get(name string) (Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.langs[name]
	if !ok {
		return Language{}, ErrNotRegistered
	}
	return lang, nil
}

// ProviderFor returns the context provider for a language name.
// Returns nil if the language is unknown or declares no provider.
func (r *Registry) ProviderFor(name string) ContextProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.langs[name].Provider
}

// Names returns all registered language names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.langs))
	for name := range r.langs {
		names = append(names, name)
	}
	return names
}
