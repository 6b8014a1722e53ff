// Package precompiler implements spec.md §4.1: it validates a raw
// Specification and normalizes it into a PrecompilationState the grammar
// package can augment. The precompiler never panics for a user-triggerable
// condition — every problem becomes a diagnostic in the returned state,
// following the same "accumulate, never throw" discipline
// grammar/grammar.go's GrammarBuilder.Build uses in the teacher repository.
package precompiler

import serr "github.com/YaccConstructor/facio/error"

// Associativity is one of the three associativity kinds spec.md §3 lists.
type Associativity int

const (
	Left Associativity = iota
	Right
	NonAssoc
)

func (a Associativity) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case NonAssoc:
		return "nonassoc"
	default:
		return "unknown"
	}
}

// TerminalDecl is one `%token`-like declaration group: an optional type
// shared by every named terminal in IDs.
type TerminalDecl struct {
	Type string
	IDs  []string
}

// NonterminalDecl is one `%type` declaration.
type NonterminalDecl struct {
	Type string
	ID   string
}

// ProductionAlt is a single alternative of a production group: an ordered
// right-hand side, an optional `%prec` override, and an opaque action body.
type ProductionAlt struct {
	Symbols []string
	Prec    string // "" means no %prec override
	Action  string
}

// ProductionGroup is every alternative declared for one nonterminal.
type ProductionGroup struct {
	Nonterminal  string
	Alternatives []ProductionAlt
}

// AssocGroup is one `%left`/`%right`/`%nonassoc` declaration, in source
// order; earlier groups bind looser than later ones (spec.md §4.1
// Normalization).
type AssocGroup struct {
	Assoc     Associativity
	Terminals []string
}

// Specification is the raw, unvalidated input record spec.md §6 describes.
type Specification struct {
	Terminals       []TerminalDecl
	Nonterminals    []NonterminalDecl
	Productions     []ProductionGroup
	Associativities []AssocGroup
	Start           []string
	Options         any // opaque to the core, per spec.md §6
}

// NormalizedProduction is one alternative after validation, with its
// symbols resolved to plain identifiers (LHS and RHS still strings; the
// grammar package is responsible for interning them into symbol.Symbol).
type NormalizedProduction struct {
	LHS     string
	RHS     []string
	Prec    string // "" unless this alternative had a %prec override
	Action  string
	Ordinal int // source declaration order, stable across a compile
}

// PrecompilationState is the precompiler's output: normalized maps plus
// accumulated diagnostics (spec.md §4.1).
type PrecompilationState struct {
	TerminalTypes    map[string]string // terminal -> declared type ("" if untyped)
	NonterminalTypes map[string]string // nonterminal -> declared type ("" if untyped)

	Productions      []*NormalizedProduction
	ProductionsByLHS map[string][]*NormalizedProduction

	TerminalPrecedence map[string]int // 1-based; absent means no precedence
	TerminalAssoc      map[string]Associativity

	// DummyTerminals holds terminals that appear only as %prec targets and
	// were never declared with %token; they must acquire an associativity
	// group (spec.md §4.1 rule 6) and are filtered from the terminal
	// alphabet exposed to backends (spec.md §4.5).
	DummyTerminals map[string]struct{}

	Start []string

	Warnings serr.List
	Errors   serr.List
}

// OK reports whether the state has no fatal errors.
func (s *PrecompilationState) OK() bool {
	return len(s.Errors) == 0
}
