package grammar

import (
	"fmt"

	"github.com/YaccConstructor/facio/symbol"
)

// firstEntry is FIRST(X) for a single symbol X: the terminals that can
// begin a string X derives, plus a flag recording whether X can derive
// the empty string.
type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{symbols: map[symbol.Symbol]struct{}{}}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if e.empty {
		return false
	}
	e.empty = true
	return true
}

// mergeExceptEmpty folds target's terminals into e without carrying over
// target's empty flag; a caller that needs ε propagated calls addEmpty
// itself once it knows the whole chain it's walking is nullable.
func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

// firstSet is FIRST(A) for every nonterminal A, one entry per
// nonterminal, computed to a fixpoint by genFirstSet.
type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{set: map[symbol.Symbol]*firstEntry{}}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; !ok {
			fst.set[prod.lhs] = newFirstEntry()
		}
	}
	return fst
}

// find computes FIRST of the RHS suffix prod.rhs[head:], the lookahead
// FIRST the SLR(1)/LALR(1) upgrades need when walking past a dotted
// symbol. An out-of-range head (the suffix past the end of the RHS,
// including the empty-RHS case) is vacuously nullable.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if head >= prod.rhsLen {
		entry.addEmpty()
		return entry, nil
	}
	for _, sym := range prod.rhs[head:] {
		if sym.IsTerminal() {
			// EndOfFile reaches here too, on the synthesized Start
			// production's RHS — it is marked terminal for exactly
			// this reason, so no special case is needed.
			entry.add(sym)
			return entry, nil
		}
		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

// genFirstSet runs the standard worklist fixpoint over every production:
// each pass folds one production's contribution into FIRST of its LHS,
// and the pass repeats until nothing changes. Mirrors the discipline
// genFollowSet and genLALR1Automaton's digraph solve use elsewhere in
// this package — no recursion, an explicit "did anything change" flag.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := newFirstSet(prods)
	for {
		changedThisPass := false
		for _, prod := range prods.getAllProductions() {
			acc := fst.findBySymbol(prod.lhs)
			changed, err := foldProductionIntoFirst(fst, acc, prod)
			if err != nil {
				return nil, err
			}
			changedThisPass = changedThisPass || changed
		}
		if !changedThisPass {
			break
		}
	}
	return fst, nil
}

// foldProductionIntoFirst folds one production A → X1 X2 ... Xn's
// contribution into acc (FIRST(A) under construction): walk the RHS
// left to right, absorbing each nullable prefix symbol's FIRST set,
// stopping at the first symbol that cannot derive ε. A production with
// an empty RHS contributes ε unconditionally.
func foldProductionIntoFirst(fst *firstSet, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym), nil
		}
		e := fst.findBySymbol(sym)
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty(), nil
}
