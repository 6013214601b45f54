package completion

// Source offers one catalog for the contexts it matches.
type Source interface {
	Match(ctx Context) bool
	Options(ctx Context) []Item
}

type kindSource struct {
	kind  ContextKind
	items []Item
}

func (s kindSource) Match(ctx Context) bool { return ctx.Kind == s.kind }
func (s kindSource) Options(Context) []Item { return s.items }

type memberSource struct{}

func (memberSource) Match(ctx Context) bool { return ctx.Kind == ContextMember }

func (memberSource) Options(ctx Context) []Item {
	if items, ok := Members(ctx.Receiver); ok {
		return items
	}
	return none
}

// DefaultSources maps every context kind to its catalog. The first match wins.
func DefaultSources() []Source {
	return []Source{
		memberSource{},
		kindSource{kind: ContextReceiver, items: none},
		kindSource{kind: ContextScript, items: ScriptGlobals},
		kindSource{kind: ContextHeaders, items: Headers},
		kindSource{kind: ContextTopLevel, items: Blocks},
	}
}

// Select returns the catalog of the first source matching ctx.
func Select(sources []Source, ctx Context) []Item {
	for _, src := range sources {
		if src.Match(ctx) {
			return src.Options(ctx)
		}
	}
	return none
}
