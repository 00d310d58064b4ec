package catalog

// Snapshot is a read-only view of one user's catalogs, keyed by id. The zero
// value is an empty catalog.
type Snapshot struct {
	Printers    map[int64]Printer  `json:"printers"`
	Filaments   map[int64]Filament `json:"filaments"`
	Accessories map[int64]Supply   `json:"accessories"`
	Packaging   map[int64]Supply   `json:"packaging"`
}

// NewSnapshot indexes the given lists by id. Later duplicates win.
func NewSnapshot(printers []Printer, filaments []Filament, accessories, packaging []Supply) Snapshot {
	s := Snapshot{
		Printers:    make(map[int64]Printer, len(printers)),
		Filaments:   make(map[int64]Filament, len(filaments)),
		Accessories: make(map[int64]Supply, len(accessories)),
		Packaging:   make(map[int64]Supply, len(packaging)),
	}
	for _, p := range printers {
		s.Printers[p.ID] = p
	}
	for _, f := range filaments {
		s.Filaments[f.ID] = f
	}
	for _, a := range accessories {
		s.Accessories[a.ID] = a
	}
	for _, p := range packaging {
		s.Packaging[p.ID] = p
	}
	return s
}

func (s Snapshot) Printer(id int64) (Printer, bool) {
	p, ok := s.Printers[id]
	return p, ok
}

func (s Snapshot) Filament(id int64) (Filament, bool) {
	f, ok := s.Filaments[id]
	return f, ok
}

func (s Snapshot) Accessory(id int64) (Supply, bool) {
	a, ok := s.Accessories[id]
	return a, ok
}

func (s Snapshot) PackagingItem(id int64) (Supply, bool) {
	p, ok := s.Packaging[id]
	return p, ok
}
