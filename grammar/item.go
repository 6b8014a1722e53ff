package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"

	"github.com/YaccConstructor/facio/symbol"
)

type lrItemID [32]byte

func (id lrItemID) String() string {
	return fmt.Sprintf("%x", id.num())
}

func (id lrItemID) num() uint32 {
	return binary.LittleEndian.Uint32(id[:])
}

// lookAhead holds the lookahead terminals an LR item carries once the
// automaton has been upgraded to SLR(1) or LALR(1) (spec.md §3: "L present
// iff LR(1)/LALR(1) context"). An LR(0) item's lookAhead is always zero.
type lookAhead struct {
	symbols map[symbol.Symbol]struct{}

	// propagation is true when this item propagates lookahead symbols to
	// other items instead of owning its own copy — grounded on
	// grammar/lalr1.go's lookAhead.propagation flag in the teacher
	// repository.
	propagation bool
}

// lrItem is (nonterminal, rhs, dot) with an optional lookahead set
// (spec.md §3 LrItem).
//
//	E → E + T
//
//	Dot | Dotted Symbol | Item
//	----+---------------+------------
//	0   | E             | E →・E + T
//	1   | +             | E → E・+ T
//	2   | T             | E → E +・T
//	3   | Nil           | E → E + T・
type lrItem struct {
	id   lrItemID
	prod ProductionRuleID

	dot          int
	dottedSymbol symbol.Symbol

	// initial is true for [Start →・s], the seed item of a compile.
	initial bool

	// reducible is true for [A → α・], i.e. dot is at the end of the RHS.
	reducible bool

	// kernel is true for items that appear in a state's kernel, i.e.
	// every item except those produced purely by closure with dot 0.
	kernel bool

	lookAhead lookAhead
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	var id lrItemID
	{
		b := []byte{}
		b = append(b, prod.key[:]...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(dot))
		b = append(b, bDot...)
		id = sha256.Sum256(b)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := prod.lhs.IsStart() && dot == 0
	reducible := dot == prod.rhsLen
	kernel := initial || dot > 0

	return &lrItem{
		id:           id,
		prod:         prod.id,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      initial,
		reducible:    reducible,
		kernel:       kernel,
	}, nil
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// kernel is the set of kernel items that identifies an LR(0) state
// (spec.md §3 LrParserState, pre-closure).
type kernel struct {
	id    kernelID
	items []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	var sortedItems []*lrItem
	{
		m := map[lrItemID]*lrItem{}
		for _, item := range items {
			if !item.kernel {
				return nil, fmt.Errorf("not a kernel item: %v", item)
			}
			m[item.id] = item
		}
		for _, item := range m {
			sortedItems = append(sortedItems, item)
		}
		sort.Slice(sortedItems, func(i, j int) bool {
			return sortedItems[i].id.num() < sortedItems[j].id.num()
		})
	}

	var id kernelID
	{
		b := []byte{}
		for _, item := range sortedItems {
			b = append(b, item.id[:]...)
		}
		id = sha256.Sum256(b)
	}

	return &kernel{id: id, items: sortedItems}, nil
}

// stateNum is the dense, discovery-order identifier of an LR(0) state
// (spec.md §3 stateId). Breadth-first discovery order makes state
// numbering deterministic across runs with identical input (spec.md §8).
type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int       { return int(n) }
func (n stateNum) String() string { return strconv.Itoa(int(n)) }
func (n stateNum) next() stateNum { return stateNum(n + 1) }

// lrState is an LrParserState: a kernel closed under closure, plus the
// transitions and reductions discovered while building it.
type lrState struct {
	*kernel
	num       stateNum
	next      map[symbol.Symbol]kernelID
	reducible map[ProductionRuleID]struct{}

	// emptyProdItems stores reducible items for empty productions
	// (A → ε), which the kernel never contains since dot==0==rhsLen makes
	// them look identical to the closure seed — grounded on
	// grammar/item.go's identical field and comment in the teacher
	// repository.
	emptyProdItems []*lrItem
}
