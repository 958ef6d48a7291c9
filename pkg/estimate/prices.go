package estimate

// Price is one entry of a price book.
type Price struct {
	Name  string  `toml:"name" json:"name" yaml:"name"`
	Spec  string  `toml:"spec,omitempty" json:"spec,omitempty" yaml:"spec,omitempty"`
	Price float64 `toml:"price" json:"price" yaml:"price"`
}

// PriceBook looks up unit prices by item name and specification. An entry
// with an empty specification prices every specification of its name that
// has no entry of its own.
type PriceBook struct {
	exact map[[2]string]float64
	any   map[string]float64
}

// NewPriceBook builds a price book from entries. Later entries win.
func NewPriceBook(entries []Price) *PriceBook {
	b := &PriceBook{
		exact: make(map[[2]string]float64),
		any:   make(map[string]float64),
	}
	for _, e := range entries {
		if e.Spec == "" {
			b.any[e.Name] = e.Price
			continue
		}
		b.exact[[2]string{e.Name, e.Spec}] = e.Price
	}
	return b
}

// Lookup returns the unit price of (name, spec). A nil book knows no prices.
func (b *PriceBook) Lookup(name, spec string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	if p, ok := b.exact[[2]string{name, spec}]; ok {
		return p, true
	}
	p, ok := b.any[name]
	return p, ok
}

// Len returns the number of entries.
func (b *PriceBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.exact) + len(b.any)
}
