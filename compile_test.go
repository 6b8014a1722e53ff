package facio

import (
	"testing"

	"github.com/YaccConstructor/facio/precompiler"
)

// arithmeticSpec is the classic expr/term/factor grammar: plain LR(0)
// carries shift/reduce conflicts that FOLLOW-narrowing alone resolves, so a
// Compile call should come back clean with no warnings.
func arithmeticSpec() precompiler.Specification {
	return precompiler.Specification{
		Terminals: []precompiler.TerminalDecl{
			{IDs: []string{"add", "mul", "lparen", "rparen", "num"}},
		},
		Nonterminals: []precompiler.NonterminalDecl{
			{ID: "expr", Type: "int"}, {ID: "term"}, {ID: "factor"},
		},
		Productions: []precompiler.ProductionGroup{
			{Nonterminal: "expr", Alternatives: []precompiler.ProductionAlt{
				{Symbols: []string{"expr", "add", "term"}},
				{Symbols: []string{"term"}},
			}},
			{Nonterminal: "term", Alternatives: []precompiler.ProductionAlt{
				{Symbols: []string{"term", "mul", "factor"}},
				{Symbols: []string{"factor"}},
			}},
			{Nonterminal: "factor", Alternatives: []precompiler.ProductionAlt{
				{Symbols: []string{"lparen", "expr", "rparen"}},
				{Symbols: []string{"num"}},
			}},
		},
		Start: []string{"expr"},
	}
}

func danglingElseSpec() precompiler.Specification {
	return precompiler.Specification{
		Terminals: []precompiler.TerminalDecl{
			{IDs: []string{"if_kw", "then_kw", "else_kw", "expr_tok", "other_kw"}},
		},
		Nonterminals: []precompiler.NonterminalDecl{{ID: "stmt", Type: "int"}},
		Productions: []precompiler.ProductionGroup{
			{
				Nonterminal: "stmt",
				Alternatives: []precompiler.ProductionAlt{
					{Symbols: []string{"if_kw", "expr_tok", "then_kw", "stmt", "else_kw", "stmt"}},
					{Symbols: []string{"if_kw", "expr_tok", "then_kw", "stmt"}},
					{Symbols: []string{"other_kw"}},
				},
			},
		},
		Start: []string{"stmt"},
	}
}

func TestCompile_ArithmeticIsWarningFree(t *testing.T) {
	result, err := Compile(arithmeticSpec())
	if err != nil {
		t.Fatalf("unexpected error compiling the arithmetic grammar: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no residual-conflict warnings, got %v", result.Warnings)
	}
	if result.Table == nil {
		t.Fatalf("expected a parsing table")
	}
	if result.Report != nil {
		t.Errorf("expected no report without EnableReporting")
	}
}

func TestCompile_DanglingElseWarnsButSucceeds(t *testing.T) {
	result, err := Compile(danglingElseSpec())
	if err != nil {
		t.Fatalf("unexpected error compiling the dangling-else grammar: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Errorf("expected a residual shift/reduce conflict warning for dangling-else")
	}
}

func TestCompile_StrictTurnsResidueIntoAnError(t *testing.T) {
	_, err := Compile(danglingElseSpec(), Strict())
	if err == nil {
		t.Fatalf("expected Strict() to turn the dangling-else residue warning into an error")
	}
}

func TestCompile_EnableReportingPopulatesReport(t *testing.T) {
	result, err := Compile(danglingElseSpec(), EnableReporting())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Report == nil {
		t.Fatalf("expected EnableReporting to populate Result.Report")
	}
}

func TestCompile_InvalidSpecificationReturnsPrecompilerErrors(t *testing.T) {
	bad := precompiler.Specification{
		Nonterminals: []precompiler.NonterminalDecl{{ID: "stmt"}},
		Productions: []precompiler.ProductionGroup{
			{Nonterminal: "stmt", Alternatives: []precompiler.ProductionAlt{
				{Symbols: []string{"undeclared_terminal"}},
			}},
		},
		Start: []string{"stmt"},
	}
	if _, err := Compile(bad); err == nil {
		t.Fatalf("expected an error compiling a specification with an undeclared symbol")
	}
}
