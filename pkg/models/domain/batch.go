package domain

import "fmt"

// ValidationError is one row-level rule violation. Row is 1-based and counts
// data rows only (the header row is excluded).
type ValidationError struct {
	Row     int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Batch is the full set of records parsed from one uploaded file. It is
// populated row by row and either rejected whole (Errors non-empty) or
// submitted whole to the remote service.
type Batch struct {
	ID      string
	Kind    RecordKind
	Records []Record
	Errors  []ValidationError
}

// Valid reports whether the batch may be committed.
func (b *Batch) Valid() bool { return len(b.Errors) == 0 }

// AddError appends a row-level error, keeping the batch's error list in the
// order errors were produced.
func (b *Batch) AddError(row int, format string, args ...any) {
	b.Errors = append(b.Errors, ValidationError{Row: row, Message: fmt.Sprintf(format, args...)})
}

// Orders returns the batch records as orders. Callers must only use this on
// an order batch.
func (b *Batch) Orders() []Order {
	out := make([]Order, 0, len(b.Records))
	for _, r := range b.Records {
		if o, ok := r.(Order); ok {
			out = append(out, o)
		}
	}
	return out
}

// Prices returns the batch records as price entries.
func (b *Batch) Prices() []PriceEntry {
	out := make([]PriceEntry, 0, len(b.Records))
	for _, r := range b.Records {
		if p, ok := r.(PriceEntry); ok {
			out = append(out, p)
		}
	}
	return out
}

// Deliveries returns the batch records as delivery assignments.
func (b *Batch) Deliveries() []Delivery {
	out := make([]Delivery, 0, len(b.Records))
	for _, r := range b.Records {
		if d, ok := r.(Delivery); ok {
			out = append(out, d)
		}
	}
	return out
}

// Projects returns the batch records as projects.
func (b *Batch) Projects() []Project {
	out := make([]Project, 0, len(b.Records))
	for _, r := range b.Records {
		if p, ok := r.(Project); ok {
			out = append(out, p)
		}
	}
	return out
}
