package grammar

import (
	"fmt"

	"github.com/YaccConstructor/facio/symbol"
)

// slr1Automaton is the LR(0) automaton upgraded with SLR(1) lookahead
// (spec.md §4.6): every reducible item in every state gets FOLLOW(lhs) as
// its lookahead set.
type slr1Automaton struct {
	*lr0Automaton
}

func genSLR1Automaton(lr0 *lr0Automaton, prods *productionSet, follow *followSet) (*slr1Automaton, error) {
	for _, state := range lr0.states {
		for prodID := range state.reducible {
			prod, ok := prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodID)
			}
			if prod.lhs.IsStart() {
				// [Start → s·EndOfFile] has no reduction; its ACTION
				// cell is Accept, computed from the GOTO edge it sits
				// behind (spec.md §4.4), not from a lookahead set.
				continue
			}

			flw, err := follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}

			var reducibleItem *lrItem
			for _, item := range state.items {
				if item.prod != prodID {
					continue
				}

				reducibleItem = item
				break
			}
			if reducibleItem == nil {
				for _, item := range state.emptyProdItems {
					if item.prod != prodID {
						continue
					}

					reducibleItem = item
					break
				}
				if reducibleItem == nil {
					return nil, fmt.Errorf("reducible item not found; state: %v, production: %v", state.num, prodID)
				}
			}

			la := map[symbol.Symbol]struct{}{}
			for sym := range flw.symbols {
				la[sym] = struct{}{}
			}
			if flw.eof {
				la[symbol.SymbolEOF] = struct{}{}
			}
			reducibleItem.lookAhead.symbols = la
		}
	}

	return &slr1Automaton{
		lr0Automaton: lr0,
	}, nil
}

// LR0Automaton returns the underlying LR(0) automaton, now carrying
// SLR(1) lookahead on its reducible items.
func (a *slr1Automaton) LR0Automaton() *lr0Automaton {
	return a.lr0Automaton
}
