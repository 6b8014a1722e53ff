package grammar

import (
	"testing"

	"github.com/YaccConstructor/facio/precompiler"
	"github.com/YaccConstructor/facio/symbol"
)

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

// testProductionGenerator looks a production up by content (LHS plus
// RHS) in a real productionSet, rather than constructing a detached
// *production, so the returned value carries the ProductionRuleID the
// grammar under test actually assigned it.
type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, prods *productionSet, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		lhsSym := genSym(lhs)
		rhsSym := make([]symbol.Symbol, 0, len(rhs))
		for _, s := range rhs {
			rhsSym = append(rhsSym, genSym(s))
		}
		key := genProductionKey(lhsSym, rhsSym)
		prod, ok := prods.key2Prod[key]
		if !ok {
			t.Fatalf("production not found; LHS: %v, RHS: %v", lhs, rhs)
		}
		return prod
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR0Item(prod, dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}
		return item
	}
}

func withLookAhead(item *lrItem, lookAhead ...symbol.Symbol) *lrItem {
	if item.lookAhead.symbols == nil {
		item.lookAhead.symbols = map[symbol.Symbol]struct{}{}
	}

	for _, a := range lookAhead {
		item.lookAhead.symbols[a] = struct{}{}
	}

	return item
}

// buildTestGrammar precompiles spec and augments it, failing the test on
// any error; it is the entry point every other _test.go file in this
// package uses to get a hold of a *Grammar without going through the
// (out-of-scope) specification-file parser.
func buildTestGrammar(t *testing.T, spec precompiler.Specification) *Grammar {
	t.Helper()

	st := precompiler.Precompile(spec)
	if !st.OK() {
		t.Fatalf("precompilation failed: %v", st.Errors)
	}

	g, err := NewGrammar(st)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return g
}

func buildTestLR0Automaton(t *testing.T, g *Grammar) *lr0Automaton {
	t.Helper()

	lr0, err := genLR0Automaton(g.productionSet, g.startSymbol)
	if err != nil {
		t.Fatalf("failed to build an LR(0) automaton: %v", err)
	}
	return lr0
}

// arithmeticTestSpec is the stratified expr/term/factor arithmetic
// grammar: left-associative + and *, with * binding tighter through the
// grammar's own layering. It is unambiguous; its plain LR(0) table has
// shift/reduce conflicts that FOLLOW-narrowing alone removes, so the
// %left declarations it carries are never needed to resolve one.
func arithmeticTestSpec() precompiler.Specification {
	return precompiler.Specification{
		Terminals: []precompiler.TerminalDecl{
			{IDs: []string{"add", "mul", "l_paren", "r_paren", "id"}},
		},
		Nonterminals: []precompiler.NonterminalDecl{
			{ID: "expr", Type: "int"},
			{ID: "term"},
			{ID: "factor"},
		},
		Productions: []precompiler.ProductionGroup{
			{
				Nonterminal: "expr",
				Alternatives: []precompiler.ProductionAlt{
					{Symbols: []string{"expr", "add", "term"}},
					{Symbols: []string{"term"}},
				},
			},
			{
				Nonterminal: "term",
				Alternatives: []precompiler.ProductionAlt{
					{Symbols: []string{"term", "mul", "factor"}},
					{Symbols: []string{"factor"}},
				},
			},
			{
				Nonterminal: "factor",
				Alternatives: []precompiler.ProductionAlt{
					{Symbols: []string{"l_paren", "expr", "r_paren"}},
					{Symbols: []string{"id"}},
				},
			},
		},
		Associativities: []precompiler.AssocGroup{
			{Assoc: precompiler.Left, Terminals: []string{"add"}},
			{Assoc: precompiler.Left, Terminals: []string{"mul"}},
		},
		Start: []string{"expr"},
	}
}
