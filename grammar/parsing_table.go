package grammar

import (
	"fmt"

	"github.com/YaccConstructor/facio/symbol"
)

// ActionType is the kind of action an LrAction carries (spec.md §3
// LrAction).
type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// LrAction is one entry of an ACTION cell.
type LrAction struct {
	Type       ActionType
	NextState  stateNum
	Production ProductionRuleID
}

// stateSymbolKey is the sparse-map key spec.md §5 calls for: ACTION and
// GOTO are represented as plain Go maps keyed by (stateId, symbol)
// instead of dense arrays, grounded on npillmayer-gorgo's
// lr/sparse.IntMatrix triplet representation, generalized to idiomatic Go
// map semantics.
type stateSymbolKey struct {
	state stateNum
	sym   symbol.Symbol
}

// ParsingTable is the LrParserTable of spec.md §3: a deterministic
// pushdown automaton, one LrAction per (state, terminal) cell and one
// next state per (state, nonterminal) cell.
type ParsingTable struct {
	action       map[stateSymbolKey]LrAction
	goTo         map[stateSymbolKey]stateNum
	InitialState stateNum
	StateCount   int
}

func newParsingTable(stateCount int, initial stateNum) *ParsingTable {
	return &ParsingTable{
		action:       map[stateSymbolKey]LrAction{},
		goTo:         map[stateSymbolKey]stateNum{},
		InitialState: initial,
		StateCount:   stateCount,
	}
}

// Action looks up ACTION(state, sym). The second return is false when the
// cell has no action, i.e. a syntax error at that (state, input) pair.
func (t *ParsingTable) Action(state stateNum, sym symbol.Symbol) (LrAction, bool) {
	a, ok := t.action[stateSymbolKey{state: state, sym: sym}]
	return a, ok
}

// GoTo looks up GOTO(state, sym).
func (t *ParsingTable) GoTo(state stateNum, sym symbol.Symbol) (stateNum, bool) {
	s, ok := t.goTo[stateSymbolKey{state: state, sym: sym}]
	return s, ok
}

type conflictResolutionMethod int

func (m conflictResolutionMethod) Int() int {
	return int(m)
}

const (
	ResolvedByPrec      conflictResolutionMethod = 1
	ResolvedByAssoc     conflictResolutionMethod = 2
	ResolvedByShift     conflictResolutionMethod = 3
	ResolvedByProdOrder conflictResolutionMethod = 4
	ResolvedByNonAssoc  conflictResolutionMethod = 5
)

type conflict interface {
	conflict()
}

// shiftReduceConflict records one ACTION(state, sym) cell that held both
// a shift and at least one reduce action before resolution.
type shiftReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	nextState  stateNum
	prod       ProductionRuleID
	resolvedBy conflictResolutionMethod
	isError    bool // NonAssoc: both actions were dropped
}

func (c *shiftReduceConflict) conflict() {}

// reduceReduceConflict records one ACTION(state, sym) cell that held more
// than one reduce action before resolution.
type reduceReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	prod1      ProductionRuleID
	prod2      ProductionRuleID
	resolvedBy conflictResolutionMethod
}

func (c *reduceReduceConflict) conflict() {}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

// isAcceptTransition reports whether target is the state an Accept
// action is keyed at: the state holding the fully-reduced item of an
// augmented Start production (spec.md §4.4: "For item
// [Start → s·EndOfFile]: Accept on terminal EndOfFile").
func isAcceptTransition(target *lrState, prods *productionSet) bool {
	for prodID := range target.reducible {
		p, ok := prods.findByID(prodID)
		if ok && p.lhs.IsStart() {
			return true
		}
	}
	return false
}

// buildRawActionTable enumerates every action every state/symbol pair
// admits, with no conflict resolution applied yet: shift/goto edges from
// the automaton's GOTO graph, plus one reduce action per reducible item
// per lookahead symbol. An item with no lookahead set yet (the automaton
// is still plain LR(0)) reduces on every terminal, exactly as spec.md
// §4.4 specifies ("LR(0) semantics: reduce regardless of lookahead");
// once an SLR(1)/LALR(1) upgrade has populated an item's lookahead, this
// function narrows automatically since it reads the item directly.
func buildRawActionTable(lr0 *lr0Automaton, prods *productionSet, allTerminals []symbol.Symbol) (map[stateSymbolKey][]LrAction, map[stateSymbolKey]stateNum, error) {
	raw := map[stateSymbolKey][]LrAction{}
	goTo := map[stateSymbolKey]stateNum{}

	for _, state := range lr0.states {
		for sym, targetID := range state.next {
			target := lr0.states[targetID]
			if sym.IsNonTerminal() {
				goTo[stateSymbolKey{state: state.num, sym: sym}] = target.num
				continue
			}
			if isAcceptTransition(target, prods) {
				key := stateSymbolKey{state: state.num, sym: sym}
				raw[key] = append(raw[key], LrAction{Type: ActionTypeAccept})
				continue
			}
			key := stateSymbolKey{state: state.num, sym: sym}
			raw[key] = append(raw[key], LrAction{Type: ActionTypeShift, NextState: target.num})
		}

		for prodID := range state.reducible {
			prod, ok := prods.findByID(prodID)
			if !ok {
				return nil, nil, fmt.Errorf("reducible production not found: %v", prodID)
			}
			if prod.lhs.IsStart() {
				continue
			}

			item := findReducibleItem(state, prodID)
			if item == nil {
				return nil, nil, fmt.Errorf("reducible item not found; state: %v, production: %v", state.num, prodID)
			}

			syms := allTerminals
			if len(item.lookAhead.symbols) > 0 {
				syms = make([]symbol.Symbol, 0, len(item.lookAhead.symbols))
				for s := range item.lookAhead.symbols {
					syms = append(syms, s)
				}
			}

			for _, sym := range syms {
				key := stateSymbolKey{state: state.num, sym: sym}
				raw[key] = append(raw[key], LrAction{Type: ActionTypeReduce, Production: prod.id})
			}
		}
	}

	return raw, goTo, nil
}

// countConflicts classifies raw's cells, matching spec.md §4.4 ("any
// ACTION cell whose set has size > 1 is a conflict").
func countConflicts(raw map[stateSymbolKey][]LrAction) (shiftReduce int, reduceReduce int) {
	for _, actions := range raw {
		if len(actions) < 2 {
			continue
		}
		hasShift := false
		reduceCount := 0
		for _, a := range actions {
			switch a.Type {
			case ActionTypeShift:
				hasShift = true
			case ActionTypeReduce:
				reduceCount++
			}
		}
		if hasShift && reduceCount > 0 {
			shiftReduce++
		} else if reduceCount > 1 {
			reduceReduce++
		}
	}
	return shiftReduce, reduceReduce
}

// resolveByPrecedence applies spec.md §4.5's shift/reduce resolution: a
// cell with a shift and reduce(s) is resolved immediately when both the
// shift symbol and the contending rule have a defined precedence; a cell
// with only reduces (reduce/reduce) is left untouched, since "Reduce/Reduce
// conflicts are never resolved by precedence at this stage." Unresolved
// shift/reduce cells (either side missing precedence) are also left
// untouched. The raw table is built from already-narrowed lookaheads, so
// every cell left untouched here goes straight to the default residue
// policy.
func resolveByPrecedence(raw map[stateSymbolKey][]LrAction, pa *precAndAssoc) (map[stateSymbolKey][]LrAction, []conflict) {
	resolved := map[stateSymbolKey][]LrAction{}
	var conflicts []conflict

	for key, actions := range raw {
		if len(actions) < 2 {
			resolved[key] = actions
			continue
		}

		var shift *LrAction
		var reduces []LrAction
		for _, a := range actions {
			switch a.Type {
			case ActionTypeShift:
				a := a
				shift = &a
			case ActionTypeReduce:
				reduces = append(reduces, a)
			}
		}
		if shift == nil || len(reduces) == 0 {
			resolved[key] = actions
			continue
		}

		winner := reduces[0]
		for _, r := range reduces[1:] {
			if pa.productionPrecedence(r.Production) > pa.productionPrecedence(winner.Production) {
				winner = r
			}
		}

		symPrec := pa.terminalPrecedence(key.sym)
		prodPrec := pa.productionPrecedence(winner.Production)
		if symPrec == precNil || prodPrec == precNil {
			resolved[key] = actions
			continue
		}

		var keepShift bool
		var method conflictResolutionMethod
		var isError bool
		switch {
		case symPrec < prodPrec:
			keepShift, method = false, ResolvedByPrec
		case symPrec > prodPrec:
			keepShift, method = true, ResolvedByPrec
		default:
			switch pa.productionAssociativity(winner.Production) {
			case assocTypeLeft:
				keepShift, method = false, ResolvedByAssoc
			case assocTypeNonAssoc:
				isError, method = true, ResolvedByNonAssoc
			default:
				keepShift, method = true, ResolvedByAssoc
			}
		}

		conflicts = append(conflicts, &shiftReduceConflict{
			state:      key.state,
			sym:        key.sym,
			nextState:  shift.NextState,
			prod:       winner.Production,
			resolvedBy: method,
			isError:    isError,
		})

		switch {
		case isError:
			resolved[key] = nil
		case keepShift:
			resolved[key] = []LrAction{*shift}
		default:
			resolved[key] = []LrAction{winner}
		}
	}

	return resolved, conflicts
}

// resolveResidue applies spec.md §4.7's last paragraph as the default
// policy for whatever conflicts survive precedence and lookahead
// narrowing: Shift/Reduce keeps Shift, Reduce/Reduce keeps the lowest
// ProductionRuleId.
func resolveResidue(resolved map[stateSymbolKey][]LrAction) (map[stateSymbolKey]LrAction, []conflict) {
	final := map[stateSymbolKey]LrAction{}
	var conflicts []conflict

	for key, actions := range resolved {
		if len(actions) == 0 {
			final[key] = LrAction{Type: ActionTypeError}
			continue
		}
		if len(actions) == 1 {
			final[key] = actions[0]
			continue
		}

		var shift *LrAction
		var reduces []LrAction
		for _, a := range actions {
			switch a.Type {
			case ActionTypeShift:
				a := a
				shift = &a
			case ActionTypeReduce:
				reduces = append(reduces, a)
			}
		}

		if shift != nil {
			winner := reduces[0]
			for _, r := range reduces[1:] {
				if r.Production < winner.Production {
					winner = r
				}
			}
			conflicts = append(conflicts, &shiftReduceConflict{
				state:      key.state,
				sym:        key.sym,
				nextState:  shift.NextState,
				prod:       winner.Production,
				resolvedBy: ResolvedByShift,
			})
			final[key] = *shift
			continue
		}

		winner := reduces[0]
		for _, r := range reduces[1:] {
			if r.Production < winner.Production {
				conflicts = append(conflicts, &reduceReduceConflict{
					state:      key.state,
					sym:        key.sym,
					prod1:      winner.Production,
					prod2:      r.Production,
					resolvedBy: ResolvedByProdOrder,
				})
				winner = r
			} else {
				conflicts = append(conflicts, &reduceReduceConflict{
					state:      key.state,
					sym:        key.sym,
					prod1:      r.Production,
					prod2:      winner.Production,
					resolvedBy: ResolvedByProdOrder,
				})
			}
		}
		final[key] = winner
	}

	return final, conflicts
}

// BuildParsingTable runs the full conflict-resolution pipeline spec.md
// §4.4-§4.7 describes over automaton: raw action enumeration, precedence
// application, then default-policy resolution of whatever residue is
// left. Conflicts is every conflict observed at either stage, in no
// particular order; callers wanting the raw pre-resolution conflict count
// (spec.md §8 scenario 2) should call buildRawActionTable and
// countConflicts directly instead.
func BuildParsingTable(lr0 *lr0Automaton, prods *productionSet, pa *precAndAssoc, allTerminals []symbol.Symbol) (*ParsingTable, []conflict, error) {
	raw, goTo, err := buildRawActionTable(lr0, prods, allTerminals)
	if err != nil {
		return nil, nil, err
	}

	afterPrec, precConflicts := resolveByPrecedence(raw, pa)
	final, residueConflicts := resolveResidue(afterPrec)

	tab := newParsingTable(len(lr0.states), lr0.states[lr0.initialState].num)
	tab.action = final
	tab.goTo = goTo

	conflicts := append(precConflicts, residueConflicts...)
	return tab, conflicts, nil
}
