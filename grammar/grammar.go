package grammar

import (
	"fmt"
	"sort"

	"github.com/YaccConstructor/facio/precompiler"
	"github.com/YaccConstructor/facio/symbol"
)

// startSymbolText names the synthesized Start nonterminal spec.md §4.3
// adds to every augmented grammar. It can never collide with a
// user-declared identifier because NewGrammar rejects a specification
// that declares a terminal or nonterminal with this spelling.
const startSymbolText = "start'"

// Grammar is the AugmentedGrammar of spec.md §3/§4.3: a Grammar wrapping
// every original terminal as `Terminal t`, every nonterminal as
// `Nonterminal n`, plus EndOfFile and a fresh Start nonterminal with one
// `Start → s EndOfFile` production per declared start nonterminal.
type Grammar struct {
	symTab        *symbol.SymbolTable
	productionSet *productionSet
	startSymbol   symbol.Symbol
	precAndAssoc  *precAndAssoc
}

// SymbolTable returns a read-only view of the symbol table backing this
// grammar's Symbol values.
func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symTab.Reader()
}

// ProductionSet returns the augmented grammar's production-rule identity
// table. The handle is opaque outside this package; callers pass it back
// into the package's Gen*/BuildParsingTable functions.
func (g *Grammar) ProductionSet() *productionSet {
	return g.productionSet
}

// StartSymbol returns the synthesized Start nonterminal (spec.md §4.3).
func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.startSymbol
}

// PrecAndAssoc returns the precedence/associativity facts spec.md §4.5
// resolves conflicts with.
func (g *Grammar) PrecAndAssoc() *precAndAssoc {
	return g.precAndAssoc
}

// NewGrammar builds the augmented grammar from a validated
// PrecompilationState (spec.md §4.3). The caller must have already
// confirmed st.OK(); a state carrying errors has no well-defined grammar.
func NewGrammar(st *precompiler.PrecompilationState) (*Grammar, error) {
	if !st.OK() {
		return nil, fmt.Errorf("cannot build a grammar from a precompilation state with errors")
	}
	if len(st.Start) == 0 {
		return nil, semErrNoStartProduction
	}
	_, isNonterm := st.NonterminalTypes[startSymbolText]
	_, isTerm := st.TerminalTypes[startSymbolText]
	if isNonterm || isTerm {
		return nil, fmt.Errorf("%q is reserved for the synthesized start symbol", startSymbolText)
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	// Symbols are registered in a stable (sorted) order so that the
	// resulting Symbol numbering, and therefore every downstream
	// ProductionRuleId and state numbering, is deterministic across runs
	// of the same specification (spec.md §8).
	for _, name := range sortedKeys(st.NonterminalTypes) {
		if _, err := w.RegisterNonTerminalSymbol(name); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(st.TerminalTypes) {
		if _, err := w.RegisterTerminalSymbol(name); err != nil {
			return nil, err
		}
	}
	startSym, err := w.RegisterStartSymbol(startSymbolText)
	if err != nil {
		return nil, err
	}

	r := symTab.Reader()

	prods := newProductionSet()
	normToID := map[*precompiler.NormalizedProduction]ProductionRuleID{}

	userProds := append([]*precompiler.NormalizedProduction{}, st.Productions...)
	sort.Slice(userProds, func(i, j int) bool { return userProds[i].Ordinal < userProds[j].Ordinal })

	for _, np := range userProds {
		lhsSym, ok := r.ToSymbol(np.LHS)
		if !ok {
			return nil, fmt.Errorf("%w: %s", semErrUndefinedSym, np.LHS)
		}
		rhsSyms := make([]symbol.Symbol, 0, len(np.RHS))
		for _, s := range np.RHS {
			sym, ok := r.ToSymbol(s)
			if !ok {
				return nil, fmt.Errorf("%w: %s", semErrUndefinedSym, s)
			}
			rhsSyms = append(rhsSyms, sym)
		}

		p, err := newProduction(lhsSym, rhsSyms)
		if err != nil {
			return nil, err
		}
		p.action = np.Action
		p.ordinal = np.Ordinal
		if !prods.append(p) {
			return nil, fmt.Errorf("%w: %s -> %v", semErrDuplicateProduction, np.LHS, np.RHS)
		}
		normToID[np] = p.id
	}

	seenStart := map[string]bool{}
	for _, s := range st.Start {
		if seenStart[s] {
			continue
		}
		seenStart[s] = true

		sSym, ok := r.ToSymbol(s)
		if !ok {
			return nil, fmt.Errorf("%w: %s", semErrUndefinedSym, s)
		}
		p, err := newProduction(startSym, []symbol.Symbol{sSym, symbol.SymbolEOF})
		if err != nil {
			return nil, err
		}
		p.ordinal = -1
		prods.append(p)
	}

	if len(prods.getAllProductions()) == 0 {
		return nil, semErrNoProduction
	}

	pa := genPrecAndAssoc(r, st, normToID)

	return &Grammar{
		symTab:        symTab,
		productionSet: prods,
		startSymbol:   startSym,
		precAndAssoc:  pa,
	}, nil
}

func sortedKeys(m map[string]string) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
