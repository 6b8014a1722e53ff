package grammar

import (
	"testing"

	"github.com/YaccConstructor/facio/precompiler"
	"github.com/YaccConstructor/facio/symbol"
)

// TestGenLALR1Automaton uses the textbook S -> L = R | R, L -> * R | id,
// R -> L grammar: it belongs to the LALR(1) class but not SLR(1), since a
// naive FOLLOW(R) = {=, $} would flag a shift/reduce conflict on "=" that
// never actually arises once lookahead is computed per state.
func TestGenLALR1Automaton(t *testing.T) {
	spec := precompiler.Specification{
		Terminals:    []precompiler.TerminalDecl{{IDs: []string{"eq", "ref", "id"}}},
		Nonterminals: []precompiler.NonterminalDecl{{ID: "S", Type: "int"}, {ID: "L"}, {ID: "R"}},
		Productions: []precompiler.ProductionGroup{
			{Nonterminal: "S", Alternatives: []precompiler.ProductionAlt{
				{Symbols: []string{"L", "eq", "R"}},
				{Symbols: []string{"R"}},
			}},
			{Nonterminal: "L", Alternatives: []precompiler.ProductionAlt{
				{Symbols: []string{"ref", "R"}},
				{Symbols: []string{"id"}},
			}},
			{Nonterminal: "R", Alternatives: []precompiler.ProductionAlt{
				{Symbols: []string{"L"}},
			}},
		},
		Start: []string{"S"},
	}

	g := buildTestGrammar(t, spec)
	lr0 := buildTestLR0Automaton(t, g)

	fst, err := genFirstSet(g.productionSet)
	if err != nil {
		t.Fatalf("failed to compute FIRST: %v", err)
	}

	automaton, err := genLALR1Automaton(lr0, g.productionSet, fst)
	if err != nil {
		t.Fatalf("failed to create a LALR1 automaton: %v", err)
	}

	genSym := newTestSymbolGenerator(t, g.SymbolTable())
	genProd := newTestProductionGenerator(t, g.productionSet, genSym)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)

	eof := symbol.SymbolEOF

	expectedKernels := map[string][]*lrItem{
		"A": {genLR0Item(startSymbolText, 0, "S", "<eof>")},
		"B": {genLR0Item(startSymbolText, 1, "S", "<eof>")},
		"G": {genLR0Item(startSymbolText, 2, "S", "<eof>")},
		"C": {
			genLR0Item("S", 1, "L", "eq", "R"),
			withLookAhead(genLR0Item("R", 1, "L"), eof),
		},
		"D": {withLookAhead(genLR0Item("S", 1, "R"), eof)},
		"E": {genLR0Item("L", 1, "ref", "R")},
		"F": {withLookAhead(genLR0Item("L", 1, "id"), genSym("eq"), eof)},
		"H": {genLR0Item("S", 2, "L", "eq", "R")},
		"I": {withLookAhead(genLR0Item("L", 2, "ref", "R"), genSym("eq"), eof)},
		"J": {withLookAhead(genLR0Item("R", 1, "L"), genSym("eq"), eof)},
		"K": {withLookAhead(genLR0Item("S", 3, "L", "eq", "R"), eof)},
	}

	expectedStates := []*expectedLRState{
		{
			kernelItems: expectedKernels["A"],
			nextStates: map[symbol.Symbol][]*lrItem{
				genSym("S"):   expectedKernels["B"],
				genSym("L"):   expectedKernels["C"],
				genSym("R"):   expectedKernels["D"],
				genSym("ref"): expectedKernels["E"],
				genSym("id"):  expectedKernels["F"],
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems: expectedKernels["B"],
			nextStates: map[symbol.Symbol][]*lrItem{
				eof: expectedKernels["G"],
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems:    expectedKernels["G"],
			nextStates:     map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{genProd(startSymbolText, "S", "<eof>")},
		},
		{
			kernelItems: expectedKernels["C"],
			nextStates: map[symbol.Symbol][]*lrItem{
				genSym("eq"): expectedKernels["H"],
			},
			reducibleProds: []*production{genProd("R", "L")},
		},
		{
			kernelItems:    expectedKernels["D"],
			nextStates:     map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{genProd("S", "R")},
		},
		{
			kernelItems: expectedKernels["E"],
			nextStates: map[symbol.Symbol][]*lrItem{
				genSym("R"):   expectedKernels["I"],
				genSym("L"):   expectedKernels["J"],
				genSym("ref"): expectedKernels["E"],
				genSym("id"):  expectedKernels["F"],
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems:    expectedKernels["F"],
			nextStates:     map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{genProd("L", "id")},
		},
		{
			kernelItems: expectedKernels["H"],
			nextStates: map[symbol.Symbol][]*lrItem{
				genSym("R"):   expectedKernels["K"],
				genSym("L"):   expectedKernels["J"],
				genSym("ref"): expectedKernels["E"],
				genSym("id"):  expectedKernels["F"],
			},
			reducibleProds: []*production{},
		},
		{
			kernelItems:    expectedKernels["I"],
			nextStates:     map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{genProd("L", "ref", "R")},
		},
		{
			kernelItems:    expectedKernels["J"],
			nextStates:     map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{genProd("R", "L")},
		},
		{
			kernelItems:    expectedKernels["K"],
			nextStates:     map[symbol.Symbol][]*lrItem{},
			reducibleProds: []*production{genProd("S", "L", "eq", "R")},
		},
	}

	testLRAutomaton(t, expectedStates, automaton.lr0Automaton, g.productionSet)
}
