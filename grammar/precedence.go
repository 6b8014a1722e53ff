package grammar

import (
	"github.com/YaccConstructor/facio/precompiler"
	"github.com/YaccConstructor/facio/symbol"
)

// assocType mirrors precompiler.Associativity at the level the LR table
// builder needs it, grounded on grammar/grammar.go's assocType constants
// in the teacher repository.
type assocType string

const (
	assocTypeNil      = assocType("")
	assocTypeLeft     = assocType("left")
	assocTypeRight    = assocType("right")
	assocTypeNonAssoc = assocType("nonassoc")
)

const precNil = 0

func toAssocType(a precompiler.Associativity) assocType {
	switch a {
	case precompiler.Left:
		return assocTypeLeft
	case precompiler.Right:
		return assocTypeRight
	case precompiler.NonAssoc:
		return assocTypeNonAssoc
	default:
		return assocTypeNil
	}
}

// precAndAssoc holds the precedence/associativity facts spec.md §4.5
// needs to resolve conflicts: one level+associativity per terminal, and
// one derived level+associativity per production rule.
type precAndAssoc struct {
	termPrec  map[symbol.Symbol]int
	termAssoc map[symbol.Symbol]assocType
	prodPrec  map[ProductionRuleID]int
	prodAssoc map[ProductionRuleID]assocType
}

func (pa *precAndAssoc) terminalPrecedence(sym symbol.Symbol) int {
	p, ok := pa.termPrec[sym]
	if !ok {
		return precNil
	}
	return p
}

func (pa *precAndAssoc) terminalAssociativity(sym symbol.Symbol) assocType {
	a, ok := pa.termAssoc[sym]
	if !ok {
		return assocTypeNil
	}
	return a
}

func (pa *precAndAssoc) productionPrecedence(id ProductionRuleID) int {
	p, ok := pa.prodPrec[id]
	if !ok {
		return precNil
	}
	return p
}

func (pa *precAndAssoc) productionAssociativity(id ProductionRuleID) assocType {
	a, ok := pa.prodAssoc[id]
	if !ok {
		return assocTypeNil
	}
	return a
}

// genPrecAndAssoc computes rulePrecedence[r] and terminalPrecedence[a]
// (spec.md §4.5 steps 1-2): a rule's precedence comes from its %prec
// override if present, otherwise from the rightmost terminal in its RHS,
// otherwise it has none.
func genPrecAndAssoc(r *symbol.SymbolTableReader, st *precompiler.PrecompilationState, normToID map[*precompiler.NormalizedProduction]ProductionRuleID) *precAndAssoc {
	termPrec := map[symbol.Symbol]int{}
	termAssoc := map[symbol.Symbol]assocType{}
	for name, level := range st.TerminalPrecedence {
		sym, ok := r.ToSymbol(name)
		if !ok {
			// A dummy terminal that was only ever used to borrow
			// precedence via %prec never gets its own Symbol (spec.md
			// §4.5: "filtered out of the final terminal alphabet").
			continue
		}
		termPrec[sym] = level
		termAssoc[sym] = toAssocType(st.TerminalAssoc[name])
	}

	prodPrec := map[ProductionRuleID]int{}
	prodAssoc := map[ProductionRuleID]assocType{}
	for np, id := range normToID {
		precName := np.Prec
		if precName == "" {
			for i := len(np.RHS) - 1; i >= 0; i-- {
				if sym, ok := r.ToSymbol(np.RHS[i]); ok && sym.IsTerminal() {
					precName = np.RHS[i]
					break
				}
			}
		}
		if precName == "" {
			continue
		}
		level, ok := st.TerminalPrecedence[precName]
		if !ok {
			continue
		}
		prodPrec[id] = level
		prodAssoc[id] = toAssocType(st.TerminalAssoc[precName])
	}

	return &precAndAssoc{
		termPrec:  termPrec,
		termAssoc: termAssoc,
		prodPrec:  prodPrec,
		prodAssoc: prodAssoc,
	}
}
