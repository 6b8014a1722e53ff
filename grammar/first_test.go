package grammar

import (
	"testing"

	"github.com/YaccConstructor/facio/precompiler"
)

type first struct {
	lhs     string
	rhs     []string
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		spec    precompiler.Specification
		first   []first
	}{
		{
			caption: "productions contain only non-empty productions",
			spec:    arithmeticTestSpec(),
			first: []first{
				{lhs: "start'", rhs: []string{"expr", "<eof>"}, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "expr", rhs: []string{"expr", "add", "term"}, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "expr", rhs: []string{"expr", "add", "term"}, dot: 1, symbols: []string{"add"}},
				{lhs: "expr", rhs: []string{"expr", "add", "term"}, dot: 2, symbols: []string{"l_paren", "id"}},
				{lhs: "expr", rhs: []string{"term"}, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "term", rhs: []string{"term", "mul", "factor"}, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "term", rhs: []string{"term", "mul", "factor"}, dot: 1, symbols: []string{"mul"}},
				{lhs: "term", rhs: []string{"term", "mul", "factor"}, dot: 2, symbols: []string{"l_paren", "id"}},
				{lhs: "term", rhs: []string{"factor"}, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "factor", rhs: []string{"l_paren", "expr", "r_paren"}, dot: 0, symbols: []string{"l_paren"}},
				{lhs: "factor", rhs: []string{"l_paren", "expr", "r_paren"}, dot: 1, symbols: []string{"l_paren", "id"}},
				{lhs: "factor", rhs: []string{"l_paren", "expr", "r_paren"}, dot: 2, symbols: []string{"r_paren"}},
				{lhs: "factor", rhs: []string{"id"}, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "productions contain an empty production",
			spec: precompiler.Specification{
				Terminals:    []precompiler.TerminalDecl{{IDs: []string{"bar"}}},
				Nonterminals: []precompiler.NonterminalDecl{{ID: "s", Type: "int"}, {ID: "foo"}},
				Productions: []precompiler.ProductionGroup{
					{Nonterminal: "s", Alternatives: []precompiler.ProductionAlt{{Symbols: []string{"foo", "bar"}}}},
					{Nonterminal: "foo", Alternatives: []precompiler.ProductionAlt{{Symbols: []string{}}}},
				},
				Start: []string{"s"},
			},
			first: []first{
				{lhs: "start'", rhs: []string{"s", "<eof>"}, dot: 0, symbols: []string{"bar"}, empty: false},
				{lhs: "s", rhs: []string{"foo", "bar"}, dot: 0, symbols: []string{"bar"}, empty: false},
				{lhs: "foo", rhs: []string{}, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a production contains non-empty alternative and empty alternative",
			spec: precompiler.Specification{
				Terminals:    []precompiler.TerminalDecl{{IDs: []string{"bar"}}},
				Nonterminals: []precompiler.NonterminalDecl{{ID: "s", Type: "int"}, {ID: "foo"}},
				Productions: []precompiler.ProductionGroup{
					{Nonterminal: "s", Alternatives: []precompiler.ProductionAlt{{Symbols: []string{"foo"}}}},
					{Nonterminal: "foo", Alternatives: []precompiler.ProductionAlt{
						{Symbols: []string{"bar"}},
						{Symbols: []string{}},
					}},
				},
				Start: []string{"s"},
			},
			first: []first{
				{lhs: "start'", rhs: []string{"s", "<eof>"}, dot: 0, symbols: []string{"bar", "<eof>"}, empty: false},
				{lhs: "s", rhs: []string{"foo"}, dot: 0, symbols: []string{"bar"}, empty: true},
				{lhs: "foo", rhs: []string{"bar"}, dot: 0, symbols: []string{"bar"}},
				{lhs: "foo", rhs: []string{}, dot: 0, symbols: []string{}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := buildTestGrammar(t, tt.spec)
			fst, err := genFirstSet(g.productionSet)
			if err != nil {
				t.Fatalf("failed to compute FIRST: %v", err)
			}

			genSym := newTestSymbolGenerator(t, g.SymbolTable())

			for _, ttFirst := range tt.first {
				lhsSym := genSym(ttFirst.lhs)
				prods, ok := g.productionSet.findByLHS(lhsSym)
				if !ok {
					t.Fatalf("a production was not found; LHS: %v", ttFirst.lhs)
				}

				prod := findProductionByRHS(t, prods, genSym, ttFirst.rhs)

				actualFirst, err := fst.find(prod, ttFirst.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST set; LHS: %v, dot: %v, error: %v", ttFirst.lhs, ttFirst.dot, err)
				}

				expectedFirst := genExpectedFirstEntry(ttFirst.symbols, ttFirst.empty, genSym)

				testFirst(t, actualFirst, expectedFirst)
			}
		})
	}
}

func findProductionByRHS(t *testing.T, prods []*production, genSym testSymbolGenerator, rhs []string) *production {
	t.Helper()

	for _, p := range prods {
		if len(p.rhs) != len(rhs) {
			continue
		}
		match := true
		for i, s := range rhs {
			if p.rhs[i] != genSym(s) {
				match = false
				break
			}
		}
		if match {
			return p
		}
	}
	t.Fatalf("a production was not found; RHS: %v", rhs)
	return nil
}

func genExpectedFirstEntry(symbols []string, empty bool, genSym testSymbolGenerator) *firstEntry {
	entry := newFirstEntry()
	if empty {
		entry.addEmpty()
	}
	for _, sym := range symbols {
		entry.add(genSym(sym))
	}
	return entry
}

func testFirst(t *testing.T, actual, expected *firstEntry) {
	if actual.empty != expected.empty {
		t.Errorf("empty is mismatched\nwant: %v\ngot: %v", expected.empty, actual.empty)
	}

	if len(actual.symbols) != len(expected.symbols) {
		t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
	}

	for eSym := range expected.symbols {
		if _, ok := actual.symbols[eSym]; !ok {
			t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
		}
	}
}
