package bitset

import "testing"

func TestSetClearTest(t *testing.T) {
	s := New(10)
	if !s.IsEmpty() {
		t.Fatal("new set should be empty")
	}

	s.MustSet(3)
	s.MustSet(7)

	if !s.Test(3) || !s.Test(7) {
		t.Fatal("expected bits 3 and 7 set")
	}
	if s.Test(0) || s.Test(9) {
		t.Fatal("unexpected bit set")
	}

	s.MustClear(3)
	if s.Test(3) {
		t.Fatal("bit 3 should be cleared")
	}
}

func TestFirstNextSet(t *testing.T) {
	s := New(130)
	s.MustSet(5)
	s.MustSet(64)
	s.MustSet(129)

	first, ok := s.FirstSet()
	if !ok || first != 5 {
		t.Fatalf("FirstSet = %d, %v, want 5, true", first, ok)
	}

	next, ok := s.NextSet(6)
	if !ok || next != 64 {
		t.Fatalf("NextSet(6) = %d, %v, want 64, true", next, ok)
	}

	next, ok = s.NextSet(65)
	if !ok || next != 129 {
		t.Fatalf("NextSet(65) = %d, %v, want 129, true", next, ok)
	}

	if _, ok := s.NextSet(130); ok {
		t.Fatal("NextSet beyond last set bit should fail")
	}
}

func TestUnionIntersection(t *testing.T) {
	n := 8
	a := New(n)
	b := New(n)
	a.MustSet(1)
	a.MustSet(2)
	b.MustSet(2)
	b.MustSet(3)

	u := a.Union(b)
	for _, bit := range []uint{1, 2, 3} {
		if !u.Test(bit) {
			t.Fatalf("union missing bit %d", bit)
		}
	}

	i := a.Intersection(b)
	if i.Count() != 1 || !i.Test(2) {
		t.Fatalf("intersection = %v, want only bit 2", i.AsSlice())
	}

	if card := a.IntersectionCardinality(b); card != 1 {
		t.Fatalf("IntersectionCardinality = %d, want 1", card)
	}
}

func TestComplementAndEquality(t *testing.T) {
	n := 5
	a := New(n)
	a.MustSet(0)
	a.MustSet(1)

	c := a.Complement(n)
	if c.Count() != n-2 {
		t.Fatalf("complement popcount = %d, want %d", c.Count(), n-2)
	}
	if a.Count()+c.Count() != n {
		t.Fatalf("popcount(a)+popcount(complement) = %d, want %d", a.Count()+c.Count(), n)
	}

	if !a.EqualOrComplement(c, n) {
		t.Fatal("a should equal complement of its own complement")
	}
	if !a.EqualOrComplement(a.Clone(), n) {
		t.Fatal("a should equal its own clone")
	}
}

func TestInPlaceUnion(t *testing.T) {
	a := New(4)
	b := New(4)
	a.MustSet(0)
	b.MustSet(1)
	a.InPlaceUnion(b)
	if a.Count() != 2 {
		t.Fatalf("InPlaceUnion count = %d, want 2", a.Count())
	}
}

func TestHammingDistance(t *testing.T) {
	a := New(8)
	b := New(8)
	a.MustSet(0)
	a.MustSet(1)
	b.MustSet(1)
	b.MustSet(2)

	if d := a.HammingDistance(b); d != 2 {
		t.Fatalf("HammingDistance = %d, want 2", d)
	}
	if d := a.HammingDistance(a.Clone()); d != 0 {
		t.Fatalf("HammingDistance of a set with itself = %d, want 0", d)
	}
}
