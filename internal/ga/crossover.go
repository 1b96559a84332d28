package ga

// MidpointCrossover builds one child from the first half of p1 and the
// second half of p2. half is floor(len/2).
func MidpointCrossover(p1, p2 []uint8) []uint8 {
	size := len(p1)
	half := size / 2

	child := make([]uint8, size)
	copy(child[:half], p1[:half])
	copy(child[half:], p2[half:])
	return child
}

// CreateChild crosses two parents into a new evaluated knapsack born in the
// given generation
func CreateChild(p1, p2 *Knapsack, birth int) *Knapsack {
	return newChild(p1.inv, MidpointCrossover(p1.composition, p2.composition), birth)
}
