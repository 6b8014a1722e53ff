// Package error defines the diagnostic types the precompiler, grammar
// builder, and LR/LALR upgrades accumulate instead of raising exceptions
// (spec.md §7). The core never sees source positions — a grammar's source
// file, if it has one at all, is parsed by an external, out-of-scope
// collaborator (spec.md §1) — so a SpecError carries only a cause, an
// optional detail, and the sequence number it was raised in.
package error

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic into the taxonomy spec.md §7 defines.
type Kind string

const (
	KindDeclaration     = Kind("declaration")
	KindReference       = Kind("reference")
	KindPrecedence      = Kind("precedence")
	KindGrammar         = Kind("grammar")
	KindConflictResidue = Kind("conflict-residue")
)

// SpecError is one diagnostic raised while validating or compiling a
// specification. A SpecError is fatal to the compile only when it appears
// among the errors (PrecompilationState.Errors, or the List that Compile
// returns as its error); the identical type is used for Warnings.
type SpecError struct {
	Kind     Kind
	Cause    error
	Detail   string
	Sequence int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %v", e.Kind, e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%v)", e.Detail)
	}
	return b.String()
}

// List is an ordered collection of diagnostics. Ordering is the order the
// diagnostics were appended in, which the precompiler and grammar builder
// guarantee is stable source-declaration order (spec.md §7).
type List []*SpecError

func (l List) Error() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Sequencer hands out monotonically increasing sequence numbers so every
// diagnostic a single compile phase raises can be ordered deterministically
// without a second sort pass (SPEC_FULL.md §4.1).
type Sequencer struct {
	next int
}

func (s *Sequencer) New(kind Kind, cause error, detail string) *SpecError {
	e := &SpecError{Kind: kind, Cause: cause, Detail: detail, Sequence: s.next}
	s.next++
	return e
}
