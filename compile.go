// Package facio implements the core of a classical LALR(1) parser
// generator: specification validation, augmented-grammar construction, the
// LR(0)/SLR(1)/LALR(1) pipeline, and conflict resolution (spec.md §1-§4).
// Compile is the single entry point a driver calls; everything downstream
// of it — the specification-file parser and the code-emitting backends —
// lives outside this package (spec.md §1 Non-goals).
package facio

import (
	"fmt"

	serr "github.com/YaccConstructor/facio/error"
	"github.com/YaccConstructor/facio/grammar"
	"github.com/YaccConstructor/facio/precompiler"
)

// ProcessedSpec is the half of Compile's output a backend needs besides
// the table itself: the precedence settings the core actually applied and
// the symbol table surviving declared types (spec.md §6 "processedSpec
// carries the precedence settings actually applied and the surviving
// declared types").
type ProcessedSpec struct {
	TerminalTypes    map[string]string
	NonterminalTypes map[string]string
	SymbolTable      *grammar.Grammar
}

// Result is Compile's Ok(...) payload.
type Result struct {
	Table    *grammar.ParsingTable
	Spec     *ProcessedSpec
	Warnings serr.List
	Report   *grammar.Report
}

type compileConfig struct {
	strict    bool
	reporting bool
}

// CompileOption configures one Compile call (spec.md §6 "options: opaque
// to the core" — these are the core's own options, not a driver's).
type CompileOption func(*compileConfig)

// Strict turns every residual Shift/Reduce or Reduce/Reduce conflict
// warning (spec.md §7 "Conflict residue") into a fatal error instead: a
// compile that would otherwise silently apply the default resolution
// policy fails outright.
func Strict() CompileOption {
	return func(c *compileConfig) { c.strict = true }
}

// EnableReporting asks Compile to also build a human-readable Report of
// the final automaton and every conflict observed, grounded on the
// teacher repository's EnableReporting/spec.Report pattern
// (cmd/vartan/compile.go).
func EnableReporting() CompileOption {
	return func(c *compileConfig) { c.reporting = true }
}

// Compile runs the full pipeline spec.md §4 describes over spec: validate
// and normalize (precompiler.Precompile), augment into a Grammar, build
// the LR(0) automaton, upgrade it to SLR(1) then LALR(1), and resolve
// whatever conflicts remain into a final ParsingTable. It returns either a
// Result or the accumulated error list — never both, and never panics for
// a user-triggerable condition (spec.md §7).
func Compile(spec precompiler.Specification, opts ...CompileOption) (*Result, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	st := precompiler.Precompile(spec)
	if !st.OK() {
		return nil, st.Errors
	}

	gram, err := grammar.NewGrammar(st)
	if err != nil {
		return nil, err
	}

	first, err := grammar.GenFirstSet(gram.ProductionSet())
	if err != nil {
		return nil, err
	}
	follow, err := grammar.GenFollowSet(gram.ProductionSet(), first)
	if err != nil {
		return nil, err
	}

	lr0, err := grammar.GenLR0Automaton(gram.ProductionSet(), gram.StartSymbol())
	if err != nil {
		return nil, err
	}

	slr1, err := grammar.GenSLR1Automaton(lr0, gram.ProductionSet(), follow)
	if err != nil {
		return nil, err
	}

	lalr1, err := grammar.GenLALR1Automaton(slr1.LR0Automaton(), gram.ProductionSet(), first)
	if err != nil {
		return nil, fmt.Errorf("grammar is not LALR(1): %w", err)
	}

	allTerminals := gram.SymbolTable().TerminalSymbols()
	tab, conflicts, err := grammar.BuildParsingTable(lalr1.LR0Automaton(), gram.ProductionSet(), gram.PrecAndAssoc(), allTerminals)
	if err != nil {
		return nil, err
	}

	var warnings serr.List
	seq := &serr.Sequencer{}
	for _, c := range conflicts {
		w := grammar.DescribeResidueConflict(c, gram.SymbolTable())
		if w == "" {
			continue
		}
		warnings = append(warnings, seq.New(serr.KindConflictResidue, fmt.Errorf("%s", w), ""))
	}
	if config.strict && len(warnings) > 0 {
		return nil, warnings
	}

	result := &Result{
		Table: tab,
		Spec: &ProcessedSpec{
			TerminalTypes:    st.TerminalTypes,
			NonterminalTypes: st.NonterminalTypes,
			SymbolTable:      gram,
		},
		Warnings: warnings,
	}
	if config.reporting {
		result.Report = grammar.NewReport(lalr1.LR0Automaton(), gram.ProductionSet(), gram.SymbolTable(), conflicts)
	}
	return result, nil
}
