package ga

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ceslop84/ia-ag/internal/inventory"
)

// Knapsack is an individual: one bit per inventory item, 1 meaning selected.
// Fitness and weight are cached; any change to the composition marks them
// dirty until Evaluate is called again.
type Knapsack struct {
	inv         *inventory.Inventory
	composition []uint8
	birth       int

	fitness int
	weight  int
	dirty   bool
}

// NewKnapsack creates an evaluated knapsack from an explicit composition.
// The composition is copied.
func NewKnapsack(inv *inventory.Inventory, composition []uint8, birth int) (*Knapsack, error) {
	if len(composition) != inv.Count() {
		return nil, fmt.Errorf("composition has %d genes, inventory has %d items", len(composition), inv.Count())
	}
	for i, g := range composition {
		if g > 1 {
			return nil, fmt.Errorf("gene %d is %d, expected 0 or 1", i, g)
		}
	}

	k := &Knapsack{
		inv:         inv,
		composition: append([]uint8(nil), composition...),
		birth:       birth,
	}
	k.Evaluate()
	return k, nil
}

// RandomKnapsack creates an evaluated knapsack with every bit drawn independently
func RandomKnapsack(inv *inventory.Inventory, birth int, rng *rand.Rand) *Knapsack {
	k := &Knapsack{
		inv:         inv,
		composition: make([]uint8, inv.Count()),
		birth:       birth,
	}
	for i := range k.composition {
		k.composition[i] = uint8(rng.Intn(2))
	}
	k.Evaluate()
	return k
}

// newChild wraps a freshly built composition without copying it
func newChild(inv *inventory.Inventory, composition []uint8, birth int) *Knapsack {
	k := &Knapsack{inv: inv, composition: composition, birth: birth}
	k.Evaluate()
	return k
}

// Evaluate recomputes fitness and weight from the composition
func (k *Knapsack) Evaluate() {
	k.fitness = k.computeFitness()
	k.weight = k.computeWeight()
	k.dirty = false
}

func (k *Knapsack) computeFitness() int {
	total := 0
	for i, g := range k.composition {
		if g == 1 {
			total += k.inv.Get(i).Value
		}
	}
	return total
}

func (k *Knapsack) computeWeight() int {
	total := 0
	for i, g := range k.composition {
		if g == 1 {
			total += k.inv.Get(i).Weight
		}
	}
	return total
}

// Fitness returns the cached total value. Panics if the composition changed
// since the last Evaluate.
func (k *Knapsack) Fitness() int {
	k.mustBeClean()
	return k.fitness
}

// Weight returns the cached total weight. Panics if the composition changed
// since the last Evaluate.
func (k *Knapsack) Weight() int {
	k.mustBeClean()
	return k.weight
}

// Dirty reports whether fitness and weight need recomputing
func (k *Knapsack) Dirty() bool {
	return k.dirty
}

func (k *Knapsack) mustBeClean() {
	if k.dirty {
		panic("ga: knapsack read before Evaluate")
	}
}

// Birth returns the generation the knapsack was created in
func (k *Knapsack) Birth() int {
	return k.birth
}

// Len returns the number of genes
func (k *Knapsack) Len() int {
	return len(k.composition)
}

// Gene returns the bit at position i
func (k *Knapsack) Gene(i int) uint8 {
	return k.composition[i]
}

// Composition returns a copy of the genes
func (k *Knapsack) Composition() []uint8 {
	return append([]uint8(nil), k.composition...)
}

// ItemCount returns the number of selected items
func (k *Knapsack) ItemCount() int {
	n := 0
	for _, g := range k.composition {
		n += int(g)
	}
	return n
}

// Feasible reports whether the knapsack fits the capacity
func (k *Knapsack) Feasible(capacity int) bool {
	return k.Weight() <= capacity
}

// Mutate flips one random bit
func (k *Knapsack) Mutate(rng *rand.Rand) {
	if len(k.composition) == 0 {
		return
	}
	i := rng.Intn(len(k.composition))
	k.composition[i] ^= 1
	k.dirty = true
}

// Repair drops random items until the knapsack fits. Positions are drawn over
// the whole composition, so drawing an unselected item just draws again.
func (k *Knapsack) Repair(capacity int, rng *rand.Rand) {
	weight := k.computeWeight()
	for weight > capacity {
		i := rng.Intn(len(k.composition))
		if k.composition[i] == 0 {
			continue
		}
		k.composition[i] = 0
		weight -= k.inv.Get(i).Weight
	}
	k.Evaluate()
}

// Penalize scales fitness by capacity/weight when overweight. Weight is kept.
func (k *Knapsack) Penalize(capacity int) {
	k.mustBeClean()
	if k.weight > capacity {
		k.fitness = capacity * k.fitness / k.weight
	}
}

// Clone returns an independent copy
func (k *Knapsack) Clone() *Knapsack {
	c := *k
	c.composition = append([]uint8(nil), k.composition...)
	return &c
}

// String renders "birth;fitness;items;weight;[b0, b1, ...]"
func (k *Knapsack) String() string {
	return fmt.Sprintf("%d;%d;%d;%d;%s", k.birth, k.Fitness(), k.ItemCount(), k.Weight(), FormatComposition(k.composition))
}

// FormatComposition renders genes as "[1, 0, 1]"
func FormatComposition(genes []uint8) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, g := range genes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('0' + g)
	}
	b.WriteByte(']')
	return b.String()
}
