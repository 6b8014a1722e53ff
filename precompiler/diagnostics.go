package precompiler

import "errors"

// Sentinel causes, grounded on grammar/semantic_error.go's table of named
// *SemanticError values in the teacher repository — one package-level error
// per distinct problem the validator can report, so tests and callers can
// compare with errors.Is instead of matching message text.
var (
	errTerminalRedeclaredDifferentType = errors.New("terminal redeclared with a different type")
	errTerminalRedeclaredSameType      = errors.New("terminal redeclared with the same type")
	errNameCollidesWithTerminal        = errors.New("nonterminal name collides with a declared terminal")
	errNameCollidesWithNonterminal     = errors.New("terminal name collides with a declared nonterminal")
	errDuplicateProductionGroup        = errors.New("duplicate production group")

	errTypeOnTerminal         = errors.New("%type applied to a terminal")
	errTypeOnUndeclared       = errors.New("%type applied to an undeclared name")
	errDuplicateTypeSameType  = errors.New("duplicate %type declaration with the same type")
	errDuplicateTypeDiffType  = errors.New("duplicate %type declaration with a different type")
	errNoStartNonterminal     = errors.New("a grammar must declare at least one starting nonterminal")
	errStartNotDeclared       = errors.New("start symbol is not a declared nonterminal")
	errStartHasNoType         = errors.New("start symbol has no declared %type")
	errDuplicateStart         = errors.New("duplicate %start declaration")
	errUndeclaredSymbol       = errors.New("undeclared symbol used in a production")
	errPrecTargetNonterminal  = errors.New("%prec target must not be a nonterminal")
	errDummyWithoutAssoc      = errors.New("dummy terminal requires an associativity declaration")
	errDuplicateAssocListing  = errors.New("terminal listed twice in the same associativity group")
	errConflictingAssocGroups = errors.New("terminal's associativity conflicts with an earlier declaration")
)
