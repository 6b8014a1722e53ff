package grammar

import (
	"fmt"

	"github.com/YaccConstructor/facio/symbol"
)

// GenFirstSet, GenFollowSet, GenLR0Automaton, GenSLR1Automaton, and
// GenLALR1Automaton re-export this package's internal Gen* pipeline
// functions for a driver package (e.g. the root Compile entry point,
// spec.md §6) that needs to run the full LR(0) → SLR(1) → LALR(1) →
// parsing-table pipeline without duplicating it. They are thin: every one
// forwards straight to its lowercase counterpart.

func GenFirstSet(prods *productionSet) (*firstSet, error) {
	return genFirstSet(prods)
}

func GenFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	return genFollowSet(prods, first)
}

func GenLR0Automaton(prods *productionSet, start symbol.Symbol) (*lr0Automaton, error) {
	return genLR0Automaton(prods, start)
}

func GenSLR1Automaton(lr0 *lr0Automaton, prods *productionSet, follow *followSet) (*slr1Automaton, error) {
	return genSLR1Automaton(lr0, prods, follow)
}

func GenLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet) (*lalr1Automaton, error) {
	return genLALR1Automaton(lr0, prods, first)
}

// DescribeResidueConflict renders the warning spec.md §7 calls for on a
// conflict resolved by the default residue policy ("Each such resolution
// emits a warning naming the state, token, and rule"). Conflicts resolved
// by precedence or associativity are not residue — they return "".
func DescribeResidueConflict(c conflict, symTab *symbol.SymbolTableReader) string {
	text := func(sym symbol.Symbol) string {
		if sym.IsEOF() {
			return "<eof>"
		}
		t, ok := symTab.ToText(sym)
		if !ok {
			return fmt.Sprintf("<symbol %v>", sym)
		}
		return t
	}

	switch v := c.(type) {
	case *shiftReduceConflict:
		if v.resolvedBy != ResolvedByShift {
			return ""
		}
		return fmt.Sprintf("state %v: shift/reduce conflict on %v resolved in favor of shift over reduce %v", v.state, text(v.sym), v.prod)
	case *reduceReduceConflict:
		if v.resolvedBy != ResolvedByProdOrder {
			return ""
		}
		return fmt.Sprintf("state %v: reduce/reduce conflict on %v resolved in favor of rule %v over rule %v", v.state, text(v.sym), v.prod2, v.prod1)
	}
	return ""
}
