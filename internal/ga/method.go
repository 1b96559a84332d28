package ga

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned for a constraint handling method other than
// Repair or Penalize
var ErrUnknownMethod = errors.New("unknown constraint handling method")

// Method decides what happens to knapsacks over capacity before survivor
// selection
type Method string

const (
	// Repair removes random items until the knapsack fits
	Repair Method = "repair"
	// Penalize scales down the fitness of overweight knapsacks
	Penalize Method = "penalize"
)

// ParseMethod accepts "repair"/"reparacao" and "penalize"/"penalizacao"
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "repair", "reparacao":
		return Repair, nil
	case "penalize", "penalizacao":
		return Penalize, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

func (m Method) String() string {
	return string(m)
}

func (m Method) valid() bool {
	return m == Repair || m == Penalize
}
