package task

import (
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/dshills/taskstorm/internal/editor"
	"github.com/dshills/taskstorm/internal/language"
	"github.com/dshills/taskstorm/internal/workspace"
)

// Resolver builds task contexts from the active editing position.
type Resolver struct {
	ws     *workspace.Workspace
	langs  *language.Registry
	logger *zap.Logger
}

// NewResolver creates a context resolver.
func NewResolver(ws *workspace.Workspace, langs *language.Registry) *Resolver {
	return &Resolver{ws: ws, langs: langs, logger: zap.NewNop()}
}

// SetLogger sets the structured logger.
func (r *Resolver) SetLogger(logger *zap.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Resolve builds a context from the active editing surface. With no active
// surface the context carries only the working directory. Partial data is
// worse than none: any failure while extracting the primary pieces degrades
// to the same empty-variables context.
//
// Composition order: well-known positional and file variables first, then
// language-provider variables, which may overwrite same-named keys
// (last-write-wins, a documented policy rather than an accident of order).
func (r *Resolver) Resolve(surface editor.Surface, cwd string) Context {
	if surface == nil {
		return NewContext(cwd)
	}
	return r.resolveOrDefault(surface, cwd)
}

// ResolveActive resolves the working directory from the workspace and then
// the variable context. Working-directory ambiguity is the one hard
// failure: it propagates instead of being guessed around.
func (r *Resolver) ResolveActive(surface editor.Surface) (Context, error) {
	cwd, err := workspace.ResolveWorkingDir(r.ws)
	if err != nil {
		return Context{}, err
	}
	return r.Resolve(surface, cwd), nil
}

// resolveOrDefault extracts the full variable set, falling back to an
// empty-variables context on any extraction failure. The degrade-to-empty
// behavior is this named function, so it is independently testable.
func (r *Resolver) resolveOrDefault(surface editor.Surface, cwd string) Context {
	ctx, err := r.resolveFull(surface, cwd)
	if err != nil {
		r.logger.Debug("context resolution degraded", zap.Error(err))
		return NewContext(cwd)
	}
	return ctx
}

func (r *Resolver) resolveFull(surface editor.Surface, cwd string) (Context, error) {
	sel := surface.Selection().Normalized()
	point := surface.OffsetToPoint(sel.Start)

	selected, err := surface.TextForRange(sel)
	if err != nil {
		return Context{}, err
	}

	// Editor-facing positions are 1-based.
	row := int(point.Line) + 1
	column := int(point.Column) + 1

	ctx := NewContext(cwd)
	ctx.Variables.Set(VarRow, strconv.Itoa(row))
	ctx.Variables.Set(VarColumn, strconv.Itoa(column))
	ctx.Variables.Set(VarSelectedText, selected)

	path := surface.Path()
	if path != "" {
		ctx.Variables.Set(VarFile, path)
		if wt, ok := r.ws.WorktreeForFile(path); ok {
			ctx.Variables.Set(VarWorktreeRoot, wt.Path)
		}
	}

	r.applyProviderVariables(&ctx, surface, sel, row, column, path)
	return ctx, nil
}

// applyProviderVariables invokes the language context provider, if any.
// Provider errors degrade to "no extra variables" and never propagate.
func (r *Resolver) applyProviderVariables(ctx *Context, surface editor.Surface, sel editor.Selection, row, column int, path string) {
	if r.langs == nil {
		return
	}
	provider := r.langs.ProviderFor(surface.LanguageName())
	if provider == nil {
		return
	}

	extra, err := provider.BuildContext(language.Location{
		File:        path,
		Text:        surface.Content(),
		StartOffset: int(sel.Start),
		EndOffset:   int(sel.End),
		Row:         row,
		Column:      column,
	})
	if err != nil {
		r.logger.Debug("language context provider failed",
			zap.String("language", surface.LanguageName()),
			zap.Error(err),
		)
		return
	}

	// Provider maps are unordered; insert in sorted name order so the
	// resulting environment is deterministic.
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ctx.Variables.Set(name, extra[name])
	}
}
