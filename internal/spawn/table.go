package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/herbfield/internal/model"
)

// Table is an ordered weighted list of herb types.
// Immutable after NewTable; safe for concurrent Draw calls with distinct RNGs.
type Table struct {
	herbs []*model.HerbType
	index map[string]*model.HerbType
	total float64
}

// NewTable builds a weighted table.
// Rejects nil entries, empty or duplicate IDs and weights that are negative or not finite.
// An empty table is allowed here; Draw reports it.
func NewTable(herbs []*model.HerbType) (*Table, error) {
	t := &Table{
		herbs: make([]*model.HerbType, 0, len(herbs)),
		index: make(map[string]*model.HerbType, len(herbs)),
	}

	for i, h := range herbs {
		if h == nil {
			return nil, configErrorf("herbs", "entry %d is nil", i)
		}
		if h.ID() == "" {
			return nil, configErrorf("herbs", "entry %d has empty id", i)
		}
		if _, dup := t.index[h.ID()]; dup {
			return nil, configErrorf("herbs", "duplicate id %q", h.ID())
		}
		if !nonNegativeFinite(h.Weight()) {
			return nil, configErrorf("herbs", "herb %q weight must be a finite number >= 0, got %v", h.ID(), h.Weight())
		}

		t.herbs = append(t.herbs, h)
		t.index[h.ID()] = h
		t.total += h.Weight()
	}
	if math.IsInf(t.total, 1) {
		return nil, configErrorf("herbs", "total weight overflows")
	}

	return t, nil
}

// Draw picks one herb with probability weight/total.
//
// When the total weight is zero the first entry is returned on every call.
// Zero-weight entries are otherwise never selected.
func (t *Table) Draw(rng *rand.Rand) (*model.HerbType, error) {
	if len(t.herbs) == 0 {
		return nil, ErrEmptyTable
	}
	if t.total <= 0 {
		return t.herbs[0], nil
	}

	r := rng.Float64() * t.total
	var last *model.HerbType
	for _, h := range t.herbs {
		w := h.Weight()
		if w <= 0 {
			continue
		}
		last = h
		r -= w
		if r <= 0 {
			return h, nil
		}
	}

	// float rounding left a sliver of remainder
	return last, nil
}

// Len returns number of entries
func (t *Table) Len() int {
	return len(t.herbs)
}

// TotalWeight returns sum of all weights
func (t *Table) TotalWeight() float64 {
	return t.total
}

// Herbs returns copy of the entries in table order
func (t *Table) Herbs() []*model.HerbType {
	out := make([]*model.HerbType, len(t.herbs))
	copy(out, t.herbs)
	return out
}

// Lookup returns herb by ID
func (t *Table) Lookup(id string) (*model.HerbType, bool) {
	h, ok := t.index[id]
	return h, ok
}
