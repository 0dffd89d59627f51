package task

import (
	"errors"
	"regexp"
	"testing"

	"github.com/dshills/taskstorm/internal/editor"
	"github.com/dshills/taskstorm/internal/language"
	"github.com/dshills/taskstorm/internal/workspace"
)

// outlineFromPattern builds an outline function that emits one entry per
// pattern match, spanning from the match to the end of the text.
func outlineFromPattern(pattern string) language.OutlineFunc {
	re := regexp.MustCompile(pattern)
	return func(text string) []language.OutlineEntry {
		var entries []language.OutlineEntry
		for _, match := range re.FindAllStringSubmatchIndex(text, -1) {
			entries = append(entries, language.OutlineEntry{
				Name:  text[match[2]:match[3]],
				Start: match[0],
				End:   len(text),
			})
		}
		return entries
	}
}

// brokenSurface fails to map its selection to text.
type brokenSurface struct{ editor.Buffer }

func (s *brokenSurface) TextForRange(sel editor.Selection) (string, error) {
	return "", errors.New("detached buffer")
}

// erroringProvider always fails.
type erroringProvider struct{}

func (erroringProvider) BuildContext(loc language.Location) (map[string]string, error) {
	return nil, errors.New("provider exploded")
}

func testRegistry() *language.Registry {
	langs := language.NewRegistry()
	langs.Register(language.Language{
		Name:     "rust",
		Provider: language.NewSymbolProvider(outlineFromPattern(`fn (\w+)`)),
	})
	langs.Register(language.Language{
		Name:     "typescript",
		Provider: language.NewSymbolProvider(outlineFromPattern(`function (\w+)`)),
	})
	return langs
}

func mustWorkspace(t *testing.T, paths ...string) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.NewFromPaths(paths...)
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	return ws
}

func TestResolveNoSurface(t *testing.T) {
	r := NewResolver(mustWorkspace(t, "/dir"), testRegistry())

	ctx := r.Resolve(nil, "/dir")
	if ctx.Cwd != "/dir" {
		t.Errorf("Cwd = %q, want /dir", ctx.Cwd)
	}
	if ctx.Variables.Len() != 0 {
		t.Errorf("variables = %v, want none", ctx.Variables.Names())
	}
}

func TestResolveDegradesToEmptyOnFailure(t *testing.T) {
	r := NewResolver(mustWorkspace(t, "/dir"), testRegistry())

	// Extraction fails mid-way: the result is the empty-variables
	// context, never partial data.
	surface := &brokenSurface{}
	ctx := r.Resolve(surface, "/dir")
	if ctx.Cwd != "/dir" {
		t.Errorf("Cwd = %q, want /dir", ctx.Cwd)
	}
	if ctx.Variables.Len() != 0 {
		t.Errorf("variables = %v, want none on degraded resolution", ctx.Variables.Names())
	}
}

func TestResolveOneBasedPosition(t *testing.T) {
	r := NewResolver(mustWorkspace(t, "/dir"), testRegistry())

	buf := editor.NewBuffer("alpha\nbeta")
	buf.Select(0, 0)

	ctx := r.Resolve(buf, "")
	if v, _ := ctx.Variables.Get(VarRow); v != "1" {
		t.Errorf("ROW = %q, want 1", v)
	}
	if v, _ := ctx.Variables.Get(VarColumn); v != "1" {
		t.Errorf("COLUMN = %q, want 1", v)
	}
	// Empty selection yields an empty string, not an absent variable.
	v, ok := ctx.Variables.Get(VarSelectedText)
	if !ok {
		t.Fatal("SELECTED_TEXT absent for empty selection")
	}
	if v != "" {
		t.Errorf("SELECTED_TEXT = %q, want empty", v)
	}
}

func TestResolveVirtualBufferOmitsFile(t *testing.T) {
	r := NewResolver(mustWorkspace(t, "/dir"), testRegistry())

	buf := editor.NewBuffer("scratch")
	ctx := r.Resolve(buf, "")

	if _, ok := ctx.Variables.Get(VarFile); ok {
		t.Error("FILE should be absent for unsaved buffers")
	}
	if _, ok := ctx.Variables.Get(VarWorktreeRoot); ok {
		t.Error("WORKTREE_ROOT should be absent for unsaved buffers")
	}
}

func TestResolveFileOutsideWorktree(t *testing.T) {
	r := NewResolver(mustWorkspace(t, "/dir"), testRegistry())

	buf := editor.NewBuffer("x")
	buf.SetPath("/elsewhere/file.go")
	ctx := r.Resolve(buf, "")

	if v, _ := ctx.Variables.Get(VarFile); v != "/elsewhere/file.go" {
		t.Errorf("FILE = %q", v)
	}
	if _, ok := ctx.Variables.Get(VarWorktreeRoot); ok {
		t.Error("WORKTREE_ROOT should be absent when no root owns the file")
	}
}

func TestResolveProviderErrorSwallowed(t *testing.T) {
	ws := mustWorkspace(t, "/dir")
	langs := language.NewRegistry()
	langs.Register(language.Language{Name: "rust", Provider: erroringProvider{}})
	r := NewResolver(ws, langs)

	buf := editor.NewBuffer("fn main() {}")
	buf.SetLanguage("rust")
	ctx := r.Resolve(buf, "/dir")

	// Provider failure degrades to no extra variables; the well-known
	// ones survive.
	if _, ok := ctx.Variables.Get(VarRow); !ok {
		t.Error("ROW missing after provider failure")
	}
	if _, ok := ctx.Variables.Get(VarSymbol); ok {
		t.Error("SYMBOL should be absent when the provider fails")
	}
}

func TestResolveProviderOverridesWellKnown(t *testing.T) {
	ws := mustWorkspace(t, "/dir")
	langs := language.NewRegistry()
	langs.Register(language.Language{Name: "odd", Provider: fixedProvider{
		"SELECTED_TEXT": "overridden",
		"SYMBOL":        "foo",
	}})
	r := NewResolver(ws, langs)

	buf := editor.NewBuffer("some text here")
	buf.SetLanguage("odd")
	buf.Select(0, 4)

	ctx := r.Resolve(buf, "")
	if v, _ := ctx.Variables.Get(VarSelectedText); v != "overridden" {
		t.Errorf("SELECTED_TEXT = %q, want provider value to win", v)
	}
	if v, _ := ctx.Variables.Get(VarSymbol); v != "foo" {
		t.Errorf("SYMBOL = %q, want foo", v)
	}
}

// fixedProvider returns a constant variable map.
type fixedProvider map[string]string

func (p fixedProvider) BuildContext(loc language.Location) (map[string]string, error) {
	return p, nil
}

func TestResolveEndToEnd(t *testing.T) {
	ws := mustWorkspace(t, "/dir")
	r := NewResolver(ws, testRegistry())

	rustBuf := editor.NewBuffer("use std; fn this_is_a_rust_file() { }")
	rustBuf.SetPath("/dir/rust/b.rs")
	rustBuf.SetLanguage("rust")
	rustBuf.Select(14, 18)

	tsBuf := editor.NewBuffer("function this_is_a_test() { }")
	tsBuf.SetPath("/dir/a.ts")
	tsBuf.SetLanguage("typescript")
	tsBuf.Select(0, 0)

	cwd, err := workspace.ResolveWorkingDir(ws)
	if err != nil {
		t.Fatalf("cwd: %v", err)
	}
	if cwd != "/dir" {
		t.Fatalf("cwd = %q, want /dir", cwd)
	}

	// Selection inside b.rs spanning characters 14-18.
	ctx := r.Resolve(rustBuf, cwd)
	assertVars(t, ctx, map[string]string{
		VarRow:          "1",
		VarColumn:       "15",
		VarSelectedText: "is_i",
		VarSymbol:       "this_is_a_rust_file",
		VarFile:         "/dir/rust/b.rs",
		VarWorktreeRoot: "/dir",
	})

	// Switch the active file to a.ts with an empty selection at the start.
	ctx = r.Resolve(tsBuf, cwd)
	assertVars(t, ctx, map[string]string{
		VarRow:          "1",
		VarColumn:       "1",
		VarSelectedText: "",
		VarSymbol:       "this_is_a_test",
		VarFile:         "/dir/a.ts",
		VarWorktreeRoot: "/dir",
	})
}

func assertVars(t *testing.T, ctx Context, want map[string]string) {
	t.Helper()
	if ctx.Variables.Len() != len(want) {
		t.Errorf("got %d variables %v, want %d", ctx.Variables.Len(), ctx.Variables.Names(), len(want))
	}
	for name, value := range want {
		got, ok := ctx.Variables.Get(name)
		if !ok {
			t.Errorf("variable %s absent", name)
			continue
		}
		if got != value {
			t.Errorf("%s = %q, want %q", name, got, value)
		}
	}
}
