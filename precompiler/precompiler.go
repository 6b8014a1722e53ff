package precompiler

import (
	"fmt"

	serr "github.com/YaccConstructor/facio/error"
)

// Precompile validates raw and normalizes it into a PrecompilationState,
// implementing the seven validation rules of spec.md §4.1. It never
// panics: every problem found becomes a diagnostic in the returned state,
// and the caller decides what to do when st.OK() is false.
func Precompile(raw Specification) *PrecompilationState {
	seq := &serr.Sequencer{}
	st := &PrecompilationState{
		TerminalTypes:      map[string]string{},
		NonterminalTypes:   map[string]string{},
		ProductionsByLHS:   map[string][]*NormalizedProduction{},
		TerminalPrecedence: map[string]int{},
		TerminalAssoc:      map[string]Associativity{},
		DummyTerminals:     map[string]struct{}{},
	}

	warn := func(kind serr.Kind, cause error, detail string) {
		st.Warnings = append(st.Warnings, seq.New(kind, cause, detail))
	}
	fail := func(kind serr.Kind, cause error, detail string) {
		st.Errors = append(st.Errors, seq.New(kind, cause, detail))
	}

	// Rule 1: each terminal declared at most once with a single type.
	for _, td := range raw.Terminals {
		for _, id := range td.IDs {
			if existing, ok := st.TerminalTypes[id]; ok {
				if existing == td.Type {
					warn(serr.KindDeclaration, errTerminalRedeclaredSameType, id)
				} else {
					fail(serr.KindDeclaration, errTerminalRedeclaredDifferentType, id)
				}
				continue
			}
			st.TerminalTypes[id] = td.Type
		}
	}

	// Rule 2: a nonterminal is declared by having >=1 production group;
	// duplicate groups are errors and are not converted.
	declaredNonterm := map[string]bool{}
	skipGroup := map[int]bool{} // index into raw.Productions
	for i, pg := range raw.Productions {
		if hasTerminal(raw, pg.Nonterminal) {
			fail(serr.KindDeclaration, errNameCollidesWithTerminal, pg.Nonterminal)
			skipGroup[i] = true
			continue
		}
		if declaredNonterm[pg.Nonterminal] {
			fail(serr.KindDeclaration, errDuplicateProductionGroup, pg.Nonterminal)
			skipGroup[i] = true
			continue
		}
		declaredNonterm[pg.Nonterminal] = true
		if _, ok := st.NonterminalTypes[pg.Nonterminal]; !ok {
			st.NonterminalTypes[pg.Nonterminal] = ""
		}
	}

	// Rule 3: %type applies only to declared nonterminals.
	for _, nd := range raw.Nonterminals {
		if _, isTerm := st.TerminalTypes[nd.ID]; isTerm {
			fail(serr.KindDeclaration, errTypeOnTerminal, nd.ID)
			continue
		}
		if !declaredNonterm[nd.ID] {
			fail(serr.KindDeclaration, errTypeOnUndeclared, nd.ID)
			continue
		}
		if existing := st.NonterminalTypes[nd.ID]; existing != "" {
			if existing == nd.Type {
				warn(serr.KindDeclaration, errDuplicateTypeSameType, nd.ID)
			} else {
				fail(serr.KindDeclaration, errDuplicateTypeDiffType, nd.ID)
			}
			continue
		}
		st.NonterminalTypes[nd.ID] = nd.Type
	}

	// Rule 4: at least one start, every start must be a declared
	// nonterminal with a %type.
	if len(raw.Start) == 0 {
		fail(serr.KindDeclaration, errNoStartNonterminal, "")
	}
	seenStart := map[string]bool{}
	for _, s := range raw.Start {
		if seenStart[s] {
			warn(serr.KindDeclaration, errDuplicateStart, s)
			continue
		}
		seenStart[s] = true
		if !declaredNonterm[s] {
			fail(serr.KindDeclaration, errStartNotDeclared, s)
			continue
		}
		if st.NonterminalTypes[s] == "" {
			fail(serr.KindDeclaration, errStartHasNoType, s)
			continue
		}
		st.Start = append(st.Start, s)
	}

	isDeclared := func(name string) bool {
		if _, ok := st.TerminalTypes[name]; ok {
			return true
		}
		return declaredNonterm[name]
	}

	// Rule 5 & 6: every RHS/%prec symbol must be declared; %prec targets
	// must not be nonterminals, and unknown %prec targets become dummy
	// terminals that must later acquire an associativity.
	ordinal := 0
	for i, pg := range raw.Productions {
		if skipGroup[i] {
			continue
		}
		groupOK := true
		for _, alt := range pg.Alternatives {
			for _, sym := range alt.Symbols {
				if !isDeclared(sym) {
					fail(serr.KindReference, errUndeclaredSymbol, fmt.Sprintf("%s (used in %s)", sym, pg.Nonterminal))
					groupOK = false
				}
			}
			if alt.Prec != "" {
				if declaredNonterm[alt.Prec] {
					fail(serr.KindPrecedence, errPrecTargetNonterminal, alt.Prec)
					groupOK = false
				} else if _, ok := st.TerminalTypes[alt.Prec]; !ok {
					st.DummyTerminals[alt.Prec] = struct{}{}
				}
			}
		}
		if !groupOK {
			continue
		}
		for _, alt := range pg.Alternatives {
			np := &NormalizedProduction{
				LHS:     pg.Nonterminal,
				RHS:     append([]string{}, alt.Symbols...),
				Prec:    alt.Prec,
				Action:  alt.Action,
				Ordinal: ordinal,
			}
			ordinal++
			st.Productions = append(st.Productions, np)
			st.ProductionsByLHS[pg.Nonterminal] = append(st.ProductionsByLHS[pg.Nonterminal], np)
		}
	}

	// Rule 7: associativity groups are ordered, earliest = lowest
	// precedence; levels start at 1.
	for gi, ag := range raw.Associativities {
		level := gi + 1
		seenInGroup := map[string]bool{}
		for _, term := range ag.Terminals {
			if seenInGroup[term] {
				warn(serr.KindPrecedence, errDuplicateAssocListing, term)
				continue
			}
			seenInGroup[term] = true
			if _, ok := st.TerminalPrecedence[term]; ok {
				fail(serr.KindPrecedence, errConflictingAssocGroups, term)
				continue
			}
			st.TerminalPrecedence[term] = level
			st.TerminalAssoc[term] = ag.Assoc
		}
	}

	// Rule 6 continued: every dummy terminal must have acquired an
	// associativity by now.
	for dummy := range st.DummyTerminals {
		if _, ok := st.TerminalPrecedence[dummy]; !ok {
			fail(serr.KindPrecedence, errDummyWithoutAssoc, dummy)
		}
	}

	return st
}

func hasTerminal(raw Specification, name string) bool {
	for _, td := range raw.Terminals {
		for _, id := range td.IDs {
			if id == name {
				return true
			}
		}
	}
	return false
}
