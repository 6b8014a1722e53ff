package grammar

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/v2/sets/hashset"

	"github.com/YaccConstructor/facio/symbol"
)

// lr0Automaton is the LrParserState graph spec.md §4.4 describes: states
// keyed by kernel identity, discovered breadth-first from the initial
// state so state numbering is deterministic (spec.md §8).
type lr0Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState
}

// genLR0Automaton builds the LR(0) automaton for a single start symbol.
// The augmented grammar may have more than one start production (one per
// user start nonterminal, spec.md §4.3); this function collects the
// `Start →・s <eof>` item of every one of them into the single initial
// kernel, where the teacher repository's grammar/lr0.go seeds from a
// single `Start →・s` item.
func genLR0Automaton(prods *productionSet, startSym symbol.Symbol) (*lr0Automaton, error) {
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol")
	}

	automaton := &lr0Automaton{states: map[kernelID]*lrState{}}

	currentState := stateNumInitial
	knownKernels := hashset.New[kernelID]()
	var uncheckedKernels []*kernel

	{
		startProds, _ := prods.findByLHS(startSym)
		var initialItems []*lrItem
		for _, p := range startProds {
			item, err := newLR0Item(p, 0)
			if err != nil {
				return nil, err
			}
			initialItems = append(initialItems, item)
		}
		k, err := newKernel(initialItems)
		if err != nil {
			return nil, err
		}
		automaton.initialState = k.id
		knownKernels.Add(k.id)
		uncheckedKernels = append(uncheckedKernels, k)
	}

	for len(uncheckedKernels) > 0 {
		var nextUnchecked []*kernel
		for _, k := range uncheckedKernels {
			state, neighbours, err := genStateAndNeighbourKernels(k, prods)
			if err != nil {
				return nil, err
			}
			state.num = currentState
			currentState = currentState.next()
			automaton.states[state.id] = state

			for _, nk := range neighbours {
				if knownKernels.Contains(nk.id) {
					continue
				}
				knownKernels.Add(nk.id)
				nextUnchecked = append(nextUnchecked, nk)
			}
		}
		uncheckedKernels = nextUnchecked
	}

	return automaton, nil
}

func genStateAndNeighbourKernels(k *kernel, prods *productionSet) (*lrState, []*kernel, error) {
	items, err := genLR0Closure(k, prods)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := genNeighbourKernels(items, prods)
	if err != nil {
		return nil, nil, err
	}

	next := map[symbol.Symbol]kernelID{}
	var kernels []*kernel
	for _, n := range neighbours {
		next[n.symbol] = n.kernel.id
		kernels = append(kernels, n.kernel)
	}

	reducible := map[ProductionRuleID]struct{}{}
	var emptyProdItems []*lrItem
	for _, item := range items {
		if !item.reducible {
			continue
		}
		reducible[item.prod] = struct{}{}

		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, nil, fmt.Errorf("reducible production not found: %v", item.prod)
		}
		if prod.isEmpty() {
			emptyProdItems = append(emptyProdItems, item)
		}
	}

	return &lrState{
		kernel:         k,
		next:           next,
		reducible:      reducible,
		emptyProdItems: emptyProdItems,
	}, kernels, nil
}

// genLR0Closure computes CLOSURE(k) (spec.md §4.4): repeatedly add, for
// every item [A → α·Bβ], every item [B →・γ] until a fixpoint is reached.
// Iteration is explicit (worklist + loop), not recursive, following the
// discipline spec.md §9 asks for and grammar/lr0.go's genLR0Closure in the
// teacher repository already uses.
func genLR0Closure(k *kernel, prods *productionSet) ([]*lrItem, error) {
	var items []*lrItem
	knownItems := map[lrItemID]struct{}{}
	var uncheckedItems []*lrItem
	for _, item := range k.items {
		items = append(items, item)
		uncheckedItems = append(uncheckedItems, item)
	}

	for len(uncheckedItems) > 0 {
		var nextUnchecked []*lrItem
		for _, item := range uncheckedItems {
			if item.dottedSymbol.IsTerminal() || item.dottedSymbol.IsNil() {
				continue
			}

			ps, _ := prods.findByLHS(item.dottedSymbol)
			for _, prod := range ps {
				newItem, err := newLR0Item(prod, 0)
				if err != nil {
					return nil, err
				}
				if _, exist := knownItems[newItem.id]; exist {
					continue
				}
				items = append(items, newItem)
				knownItems[newItem.id] = struct{}{}
				nextUnchecked = append(nextUnchecked, newItem)
			}
		}
		uncheckedItems = nextUnchecked
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel *kernel
}

// genNeighbourKernels computes GOTO(I, X) for every symbol X with a dotted
// occurrence in items (spec.md §4.4), grouping the advanced items by X and
// turning each group into a kernel.
func genNeighbourKernels(items []*lrItem, prods *productionSet) ([]*neighbourKernel, error) {
	kItemMap := map[symbol.Symbol][]*lrItem{}
	for _, item := range items {
		if item.dottedSymbol.IsNil() {
			continue
		}
		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("production was not found: %v", item.prod)
		}
		kItem, err := newLR0Item(prod, item.dot+1)
		if err != nil {
			return nil, err
		}
		kItemMap[item.dottedSymbol] = append(kItemMap[item.dottedSymbol], kItem)
	}

	var nextSyms []symbol.Symbol
	for sym := range kItemMap {
		nextSyms = append(nextSyms, sym)
	}
	sort.Slice(nextSyms, func(i, j int) bool { return nextSyms[i] < nextSyms[j] })

	var kernels []*neighbourKernel
	for _, sym := range nextSyms {
		k, err := newKernel(kItemMap[sym])
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, &neighbourKernel{symbol: sym, kernel: k})
	}

	return kernels, nil
}
