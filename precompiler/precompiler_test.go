package precompiler

import "testing"

func arithmeticSpec() Specification {
	return Specification{
		Terminals: []TerminalDecl{
			{IDs: []string{"NUM", "PLUS", "TIMES", "LPAREN", "RPAREN"}},
		},
		Nonterminals: []NonterminalDecl{
			{ID: "E", Type: "int"},
		},
		Productions: []ProductionGroup{
			{
				Nonterminal: "E",
				Alternatives: []ProductionAlt{
					{Symbols: []string{"E", "PLUS", "E"}},
					{Symbols: []string{"E", "TIMES", "E"}},
					{Symbols: []string{"LPAREN", "E", "RPAREN"}},
					{Symbols: []string{"NUM"}},
				},
			},
		},
		Associativities: []AssocGroup{
			{Assoc: Left, Terminals: []string{"PLUS"}},
			{Assoc: Left, Terminals: []string{"TIMES"}},
		},
		Start: []string{"E"},
	}
}

func TestPrecompileArithmeticGrammarIsValid(t *testing.T) {
	st := Precompile(arithmeticSpec())
	if !st.OK() {
		t.Fatalf("unexpected errors: %v", st.Errors)
	}
	if len(st.Productions) != 4 {
		t.Fatalf("got %d productions, want 4", len(st.Productions))
	}
	if st.TerminalPrecedence["PLUS"] != 1 || st.TerminalPrecedence["TIMES"] != 2 {
		t.Fatalf("unexpected precedence levels: PLUS=%d TIMES=%d", st.TerminalPrecedence["PLUS"], st.TerminalPrecedence["TIMES"])
	}
	if st.TerminalAssoc["PLUS"] != Left {
		t.Fatalf("PLUS associativity = %v, want Left", st.TerminalAssoc["PLUS"])
	}
}

func TestPrecompileEmptySpecificationRequiresStart(t *testing.T) {
	st := Precompile(Specification{})
	if st.OK() {
		t.Fatalf("expected errors for an empty specification")
	}
	found := false
	for _, e := range st.Errors {
		if e.Cause == errNoStartNonterminal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected errNoStartNonterminal, got %v", st.Errors)
	}
}

func TestPrecompileDummyTerminalWithoutAssocIsAnError(t *testing.T) {
	spec := Specification{
		Terminals: []TerminalDecl{
			{IDs: []string{"MINUS"}},
		},
		Nonterminals: []NonterminalDecl{{ID: "E", Type: "int"}},
		Productions: []ProductionGroup{
			{
				Nonterminal: "E",
				Alternatives: []ProductionAlt{
					{Symbols: []string{"MINUS", "E"}, Prec: "UMINUS"},
				},
			},
		},
		Start: []string{"E"},
	}
	st := Precompile(spec)
	if st.OK() {
		t.Fatalf("expected an error for dummy terminal UMINUS without associativity")
	}
	found := false
	for _, e := range st.Errors {
		if e.Cause == errDummyWithoutAssoc && e.Detail == "UMINUS" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected errDummyWithoutAssoc for UMINUS, got %v", st.Errors)
	}
}

func TestPrecompileDummyTerminalWithAssocIsAccepted(t *testing.T) {
	spec := Specification{
		Terminals: []TerminalDecl{
			{IDs: []string{"MINUS"}},
		},
		Nonterminals: []NonterminalDecl{{ID: "E", Type: "int"}},
		Productions: []ProductionGroup{
			{
				Nonterminal: "E",
				Alternatives: []ProductionAlt{
					{Symbols: []string{"MINUS", "E"}, Prec: "UMINUS"},
				},
			},
		},
		Associativities: []AssocGroup{
			{Assoc: Left, Terminals: []string{"UMINUS"}},
		},
		Start: []string{"E"},
	}
	st := Precompile(spec)
	if !st.OK() {
		t.Fatalf("unexpected errors: %v", st.Errors)
	}
	if _, ok := st.DummyTerminals["UMINUS"]; !ok {
		t.Fatalf("expected UMINUS to be recorded as a dummy terminal")
	}
}

func TestPrecompileUndeclaredSymbolSkipsGroup(t *testing.T) {
	spec := Specification{
		Terminals:    []TerminalDecl{{IDs: []string{"A"}}},
		Nonterminals: []NonterminalDecl{{ID: "S", Type: "int"}},
		Productions: []ProductionGroup{
			{Nonterminal: "S", Alternatives: []ProductionAlt{{Symbols: []string{"A", "B"}}}},
		},
		Start: []string{"S"},
	}
	st := Precompile(spec)
	if st.OK() {
		t.Fatalf("expected an undeclared-symbol error")
	}
	if len(st.Productions) != 0 {
		t.Fatalf("expected the production group to be skipped, got %v", st.Productions)
	}
}

func TestPrecompileNameCollisionBetweenTerminalAndNonterminal(t *testing.T) {
	spec := Specification{
		Terminals:    []TerminalDecl{{IDs: []string{"X"}}},
		Nonterminals: []NonterminalDecl{{ID: "X", Type: "int"}},
		Productions: []ProductionGroup{
			{Nonterminal: "X", Alternatives: []ProductionAlt{{Symbols: []string{}}}},
		},
		Start: []string{"X"},
	}
	st := Precompile(spec)
	if st.OK() {
		t.Fatalf("expected a name-collision error")
	}
}

func TestPrecompileConflictingAssociativityGroups(t *testing.T) {
	spec := Specification{
		Terminals:    []TerminalDecl{{IDs: []string{"A"}}},
		Nonterminals: []NonterminalDecl{{ID: "S", Type: "int"}},
		Productions: []ProductionGroup{
			{Nonterminal: "S", Alternatives: []ProductionAlt{{Symbols: []string{"A"}}}},
		},
		Associativities: []AssocGroup{
			{Assoc: Left, Terminals: []string{"A"}},
			{Assoc: Right, Terminals: []string{"A"}},
		},
		Start: []string{"S"},
	}
	st := Precompile(spec)
	if st.OK() {
		t.Fatalf("expected a conflicting-associativity error")
	}
}
