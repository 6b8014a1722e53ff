package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/v2/lists/arraylist"

	"github.com/YaccConstructor/facio/symbol"
)

// Report renders a ParsingTable plus the conflicts observed while
// building it as a human-readable trace: a conflicts section listing
// every shift/reduce and reduce/reduce conflict observed (including
// those precedence resolved), then the terminals and productions, then
// one block of items and actions per state. Grounded on the
// teacher repository's grammar/parsing_table.go descriptionWriter,
// adapted from its dense-array table and private symbol type to the
// sparse ParsingTable and symbol.Symbol of this package.
type Report struct {
	automaton *lr0Automaton
	prods     *productionSet
	symTab    *symbol.SymbolTableReader
	conflicts []conflict
}

func NewReport(automaton *lr0Automaton, prods *productionSet, symTab *symbol.SymbolTableReader, conflicts []conflict) *Report {
	return &Report{automaton: automaton, prods: prods, symTab: symTab, conflicts: conflicts}
}

func (r *Report) HasConflicts() bool {
	return len(r.conflicts) > 0
}

func (r *Report) Write(w io.Writer) {
	byState := map[stateNum][]conflict{}
	for _, c := range r.conflicts {
		switch v := c.(type) {
		case *shiftReduceConflict:
			byState[v.state] = append(byState[v.state], c)
		case *reduceReduceConflict:
			byState[v.state] = append(byState[v.state], c)
		}
	}

	fmt.Fprintf(w, "# Conflicts\n\n")
	if len(r.conflicts) > 0 {
		fmt.Fprintf(w, "%v conflicts:\n\n", len(r.conflicts))
		for _, c := range r.conflicts {
			switch v := c.(type) {
			case *shiftReduceConflict:
				fmt.Fprintf(w, "state %v: shift/reduce conflict (shift -> %v, reduce %v) on %v, resolved by method %v\n",
					v.state, v.nextState, v.prod, r.symbolToText(v.sym), v.resolvedBy.Int())
			case *reduceReduceConflict:
				fmt.Fprintf(w, "state %v: reduce/reduce conflict (reduce %v and %v) on %v, resolved by method %v\n",
					v.state, v.prod1, v.prod2, r.symbolToText(v.sym), v.resolvedBy.Int())
			}
		}
		fmt.Fprintf(w, "\n")
	} else {
		fmt.Fprintf(w, "no conflicts\n\n")
	}

	fmt.Fprintf(w, "# Terminals\n\n")
	termSyms := r.symTab.TerminalSymbols()
	fmt.Fprintf(w, "%v symbols:\n\n", len(termSyms))
	for _, sym := range termSyms {
		fmt.Fprintf(w, "%4v %v\n", sym.Num(), r.symbolToText(sym))
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "# Productions\n\n")
	prods := r.sortedProductions()
	fmt.Fprintf(w, "%v productions:\n\n", len(prods))
	for _, prod := range prods {
		fmt.Fprintf(w, "%4v %v\n", prod.id, r.productionToString(prod, -1))
	}

	fmt.Fprintf(w, "\n# States\n\n")
	fmt.Fprintf(w, "%v states:\n\n", len(r.automaton.states))

	states := r.sortedStates()
	for _, state := range states {
		fmt.Fprintf(w, "state %v\n", state.num)
		for _, item := range state.items {
			prod, ok := r.prods.findByID(item.prod)
			if !ok {
				fmt.Fprintf(w, "<production not found>\n")
				continue
			}
			fmt.Fprintf(w, "    %v\n", r.productionToString(prod, item.dot))
		}
		fmt.Fprintf(w, "\n")

		var shiftRecs, reduceRecs, gotoRecs []string
		var accRec string
		for sym, kID := range state.next {
			nextState := r.automaton.states[kID]
			if isAcceptTransition(nextState, r.prods) {
				accRec = fmt.Sprintf("accept on %v", r.symbolToText(sym))
				continue
			}
			if sym.IsNonTerminal() {
				gotoRecs = append(gotoRecs, fmt.Sprintf("goto   %4v on %v", nextState.num, r.symbolToText(sym)))
			} else {
				shiftRecs = append(shiftRecs, fmt.Sprintf("shift  %4v on %v", nextState.num, r.symbolToText(sym)))
			}
		}
		for prodID := range state.reducible {
			prod, ok := r.prods.findByID(prodID)
			if !ok || prod.lhs.IsStart() {
				continue
			}
			item := findReducibleItem(state, prodID)
			if item == nil {
				reduceRecs = append(reduceRecs, "<item not found>")
				continue
			}
			for a := range item.lookAhead.symbols {
				reduceRecs = append(reduceRecs, fmt.Sprintf("reduce %4v on %v", prod.id, r.symbolToText(a)))
			}
		}

		if len(shiftRecs) > 0 || len(reduceRecs) > 0 {
			for _, rec := range shiftRecs {
				fmt.Fprintf(w, "    %v\n", rec)
			}
			for _, rec := range reduceRecs {
				fmt.Fprintf(w, "    %v\n", rec)
			}
			fmt.Fprintf(w, "\n")
		}
		if len(gotoRecs) > 0 {
			for _, rec := range gotoRecs {
				fmt.Fprintf(w, "    %v\n", rec)
			}
			fmt.Fprintf(w, "\n")
		}
		if accRec != "" {
			fmt.Fprintf(w, "    %v\n\n", accRec)
		}

		if cons, ok := byState[state.num]; ok {
			for _, c := range cons {
				switch v := c.(type) {
				case *shiftReduceConflict:
					fmt.Fprintf(w, "    shift/reduce conflict (shift -> %v, reduce %v) on %v\n", v.nextState, v.prod, r.symbolToText(v.sym))
				case *reduceReduceConflict:
					fmt.Fprintf(w, "    reduce/reduce conflict (reduce %v and %v) on %v\n", v.prod1, v.prod2, r.symbolToText(v.sym))
				}
			}
			fmt.Fprintf(w, "\n")
		}
	}
}

// sortedProductions orders every production by ProductionRuleID for a
// stable listing; an arraylist carries the Sort rather than sort.Slice so
// the ordering step matches the container this package already leans on
// for production-rule bookkeeping.
func (r *Report) sortedProductions() []*production {
	all := r.prods.getAllProductions()
	out := arraylist.New[*production]()
	for _, p := range all {
		out.Add(p)
	}
	out.Sort(func(a, b *production) int { return int(a.id) - int(b.id) })
	return out.Values()
}

func (r *Report) sortedStates() []*lrState {
	out := arraylist.New[*lrState]()
	for _, s := range r.automaton.states {
		out.Add(s)
	}
	out.Sort(func(a, b *lrState) int { return int(a.num) - int(b.num) })
	return out.Values()
}

func (r *Report) productionToString(prod *production, dot int) string {
	var w strings.Builder
	fmt.Fprintf(&w, "%v →", r.symbolToText(prod.lhs))
	for n, rhs := range prod.rhs {
		if n == dot {
			fmt.Fprintf(&w, " ・")
		}
		fmt.Fprintf(&w, " %v", r.symbolToText(rhs))
	}
	if dot == len(prod.rhs) {
		fmt.Fprintf(&w, " ・")
	}
	return w.String()
}

func (r *Report) symbolToText(sym symbol.Symbol) string {
	if sym.IsNil() {
		return "<NULL>"
	}
	if sym.IsEOF() {
		return "<EOF>"
	}
	text, ok := r.symTab.ToText(sym)
	if !ok {
		return fmt.Sprintf("<symbol not found: %v>", sym)
	}
	return text
}
