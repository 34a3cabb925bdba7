package types

// StockMap tracks on-hand units per size label. Stored as jsonb.
type StockMap map[string]int

// Qty returns the units on hand for a size, zero when the size is unknown.
func (s StockMap) Qty(size string) int {
	if s == nil {
		return 0
	}
	return s[size]
}

// Total sums the units across all sizes.
func (s StockMap) Total() int {
	total := 0
	for _, qty := range s {
		total += qty
	}
	return total
}

// Clone returns an independent copy of the map.
func (s StockMap) Clone() StockMap {
	if s == nil {
		return nil
	}
	out := make(StockMap, len(s))
	for size, qty := range s {
		out[size] = qty
	}
	return out
}

// Add adjusts a size by delta, flooring the result at zero.
func (s StockMap) Add(size string, delta int) {
	if s == nil {
		return
	}
	next := s[size] + delta
	if next < 0 {
		next = 0
	}
	s[size] = next
}
