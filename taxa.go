package tbe

// TaxonTable is the shared mapping between taxon names and the dense
// integer ids used everywhere else in this package — bitset positions
// and the taxon field of leaf nodes (distinct from their nodeIDs). It is built once
// from the reference tree and frozen; every replicate is parsed against
// the same frozen table so that bit position i always means the same
// taxon across the whole run.
type TaxonTable struct {
	byName map[string]int32
	names  []string
	frozen bool
}

// NewTaxonTable returns an empty, unfrozen table ready to accept names
// while the reference tree is parsed.
func NewTaxonTable() *TaxonTable {
	return &TaxonTable{byName: make(map[string]int32)}
}

// intern returns the id for name, allocating a new one if the table is
// not yet frozen. It returns an error if the table is frozen and name is
// unknown — the path taken while parsing a bootstrap replicate, where
// the taxon set must already be closed.
func (t *TaxonTable) intern(name string) (int32, error) {
	if id, ok := t.byName[name]; ok {
		return id, nil
	}
	if t.frozen {
		return 0, newError(KindTaxonMismatch, "unknown taxon \""+name+"\"", nil)
	}
	id := int32(len(t.names))
	t.byName[name] = id
	t.names = append(t.names, name)
	return id, nil
}

// Freeze closes the table to further insertions. Called once the
// reference tree has been fully parsed.
func (t *TaxonTable) Freeze() {
	t.frozen = true
}

// Frozen reports whether the table accepts no further new names.
func (t *TaxonTable) Frozen() bool {
	return t.frozen
}

// Len returns the number of distinct taxa in the table.
func (t *TaxonTable) Len() int {
	return len(t.names)
}

// Name returns the taxon name for id. Panics if id is out of range.
func (t *TaxonTable) Name(id int32) string {
	return t.names[id]
}

// ID returns the id for name and whether it is known to the table.
func (t *TaxonTable) ID(name string) (int32, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Has reports whether name is a member of the table.
func (t *TaxonTable) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns the table's names ordered by id. The caller must not
// mutate the returned slice.
func (t *TaxonTable) Names() []string {
	return t.names
}

// sameTaxonSet reports whether seen (one flag per taxon id, set for
// every taxon a replicate contained) covers this frozen table exactly —
// used by the Newick parser once it reaches the terminating ';', to
// raise TaxonMismatch for a replicate that lacks one of the reference's
// taxa (an unknown name is already rejected by intern). A seen slice
// whose length differs from the table is also a mismatch.
func (t *TaxonTable) sameTaxonSet(seen []bool) error {
	if len(seen) != len(t.names) {
		return newError(KindTaxonMismatch, "replicate leaf count does not match taxon table", nil)
	}
	for id, ok := range seen {
		if !ok {
			return newError(KindTaxonMismatch, "replicate is missing taxon \""+t.names[id]+"\"", nil)
		}
	}
	return nil
}
