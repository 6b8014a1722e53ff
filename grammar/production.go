package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/emirpasic/gods/v2/lists/arraylist"

	"github.com/YaccConstructor/facio/symbol"
)

// productionKey identifies a production by its LHS and RHS content: two
// productions with the same LHS and elementwise-equal RHS share a key,
// hashed together rather than compared field-by-field since a production's
// RHS can run long.
type productionKey [32]byte

func (id productionKey) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionKey(lhs symbol.Symbol, rhs []symbol.Symbol) productionKey {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return productionKey(sha256.Sum256(seq))
}

// ProductionRuleID is the dense integer handle a production carries once
// appended to a productionSet: assigned in the order productions are first
// seen, stable within one compile.
type ProductionRuleID uint16

const (
	ProductionRuleIDNil = ProductionRuleID(0)
	productionRuleIDMin = ProductionRuleID(1)
)

func (n ProductionRuleID) Int() int {
	return int(n)
}

// production is one augmented-grammar rule: a nonterminal LHS and an
// ordered (possibly empty) RHS.
type production struct {
	key     productionKey
	id      ProductionRuleID
	lhs     symbol.Symbol
	rhs     []symbol.Symbol
	rhsLen  int
	prec    symbol.Symbol // %prec override terminal, symbol.SymbolNil if none
	action  string
	ordinal int // source declaration order, -1 for the synthesized Start productions
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}
	return &production{
		key:     genProductionKey(lhs, rhs),
		lhs:     lhs,
		rhs:     rhs,
		rhsLen:  len(rhs),
		ordinal: -1,
	}, nil
}

func (p *production) equals(q *production) bool {
	return q.key == p.key
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

// productionSet is the production-rule identity table: it assigns each
// distinct (lhs, rhs) pair a dense ProductionRuleID the first time it is
// appended, and answers lookups by id or by LHS. The productions sharing
// an LHS keep arrival order (a closure walk over a nonterminal's
// alternatives reads more predictably that way than off a map's random
// iteration), so lhs2Prods holds an arraylist per nonterminal rather than
// a plain slice.
type productionSet struct {
	lhs2Prods map[symbol.Symbol]*arraylist.List[*production]
	key2Prod  map[productionKey]*production
	id2Prod   map[ProductionRuleID]*production
	next      ProductionRuleID
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol]*arraylist.List[*production]{},
		key2Prod:  map[productionKey]*production{},
		id2Prod:   map[ProductionRuleID]*production{},
		next:      productionRuleIDMin,
	}
}

func (ps *productionSet) append(prod *production) bool {
	if _, ok := ps.key2Prod[prod.key]; ok {
		return false
	}

	prod.id = ps.next
	ps.next++

	prods, ok := ps.lhs2Prods[prod.lhs]
	if !ok {
		prods = arraylist.New[*production]()
		ps.lhs2Prods[prod.lhs] = prods
	}
	prods.Add(prod)
	ps.key2Prod[prod.key] = prod
	ps.id2Prod[prod.id] = prod

	return true
}

func (ps *productionSet) findByID(id ProductionRuleID) (*production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}
	prods, ok := ps.lhs2Prods[lhs]
	if !ok {
		return nil, false
	}
	return prods.Values(), true
}

func (ps *productionSet) getAllProductions() map[ProductionRuleID]*production {
	return ps.id2Prod
}
