package estimate

import "math"

// Units of the two sections.
const (
	UnitPiece = "ヶ"
	UnitMetre = "m"
)

// Section titles.
const (
	SectionParts = "部材"
	SectionPipes = "配管"
)

// TotalLabel names the total row of a section.
const TotalLabel = "合計"

// Item is one row of an estimate sheet. UnitPrice and Amount are zero when
// the item has no price.
type Item struct {
	Name      string  `toml:"name" json:"name" yaml:"name"`
	Spec      string  `toml:"spec" json:"spec" yaml:"spec"`
	Quantity  float64 `toml:"quantity" json:"quantity" yaml:"quantity"`
	Unit      string  `toml:"unit" json:"unit" yaml:"unit"`
	UnitPrice float64 `toml:"unit_price,omitempty" json:"unit_price,omitempty" yaml:"unit_price,omitempty"`
	Amount    float64 `toml:"amount,omitempty" json:"amount,omitempty" yaml:"amount,omitempty"`
	Priced    bool    `toml:"priced" json:"priced" yaml:"priced"`
}

// Section is a titled list of items with their priced total.
type Section struct {
	Title string  `toml:"title" json:"title" yaml:"title"`
	Items []Item  `toml:"items" json:"items" yaml:"items"`
	Total float64 `toml:"total" json:"total" yaml:"total"`
}

// Sheet is a complete estimate.
type Sheet struct {
	// Customer heads the sheet; it is the input file's base name.
	Customer string    `toml:"customer" json:"customer" yaml:"customer"`
	Sections []Section `toml:"sections" json:"sections" yaml:"sections"`
	Total    float64   `toml:"total" json:"total" yaml:"total"`
}

// Heading returns the sheet heading, e.g. "site  様".
func (s *Sheet) Heading() string { return s.Customer + "  様" }

// NewSheet builds the estimate of q priced from book, which may be nil.
func NewSheet(customer string, q *Quantities, book *PriceBook) *Sheet {
	parts := Section{Title: SectionParts}
	for _, k := range q.PartKeys() {
		parts.add(book, k.Name(), k.Spec(), float64(q.Parts[k]), UnitPiece)
	}
	pipes := Section{Title: SectionPipes}
	for _, k := range q.PipeKeys() {
		pipes.add(book, PipeName, k.Spec(), round(q.Pipes[k], 2), UnitMetre)
	}
	return &Sheet{
		Customer: customer,
		Sections: []Section{parts, pipes},
		Total:    parts.Total + pipes.Total,
	}
}

func (s *Section) add(book *PriceBook, name, spec string, qty float64, unit string) {
	it := Item{Name: name, Spec: spec, Quantity: qty, Unit: unit}
	if p, ok := book.Lookup(name, spec); ok {
		it.UnitPrice, it.Priced = p, true
		it.Amount = round(p*qty, 2)
		s.Total += it.Amount
	}
	s.Items = append(s.Items, it)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
