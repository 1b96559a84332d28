package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Item is one selectable object of the inventory
type Item struct {
	Index  int
	Weight int
	Value  int
}

// Inventory is the ordered, read-only list of items a knapsack selects from.
// It is never modified after construction, so it can be shared between goroutines.
type Inventory struct {
	items []Item
}

// New builds an inventory from the given items
func New(items []Item) (*Inventory, error) {
	if len(items) == 0 {
		return nil, errors.New("inventory: no items")
	}
	for i, it := range items {
		if it.Weight < 0 || it.Value < 0 {
			return nil, fmt.Errorf("inventory: item %d has negative weight or value", i)
		}
	}
	inv := &Inventory{items: make([]Item, len(items))}
	copy(inv.items, items)
	return inv, nil
}

// Get returns the item at position i
func (inv *Inventory) Get(i int) Item {
	return inv.items[i]
}

// Count returns the number of items
func (inv *Inventory) Count() int {
	return len(inv.items)
}

// Items returns a copy of all items
func (inv *Inventory) Items() []Item {
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// TotalWeight returns the weight of the whole inventory
func (inv *Inventory) TotalWeight() int {
	total := 0
	for _, it := range inv.items {
		total += it.Weight
	}
	return total
}

// Load reads an inventory CSV file
func Load(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inv, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

// Read parses rows of "index,weight,value". A leading non-numeric row is
// taken as a header and skipped.
func Read(r io.Reader) (*Inventory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []Item
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", line, len(record))
		}

		item, err := parseItem(record)
		if err != nil {
			if len(items) == 0 && line == 1 {
				// header
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}

	return New(items)
}

func parseItem(record []string) (Item, error) {
	var vals [3]int
	for i, field := range record {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return Item{}, err
		}
		vals[i] = v
	}
	return Item{Index: vals[0], Weight: vals[1], Value: vals[2]}, nil
}
