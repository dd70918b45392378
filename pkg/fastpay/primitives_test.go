package fastpay

import "testing"

func TestBalanceAddSub(t *testing.T) {
	b := NewBalance(100)

	after, err := b.Sub(40)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if after.Int64() != 60 {
		t.Fatalf("after.Int64() = %d, want 60", after.Int64())
	}

	after, err = after.Add(5)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if after.Int64() != 65 {
		t.Fatalf("after.Int64() = %d, want 65", after.Int64())
	}
}

func TestBalanceSubCanGoNegativeWithoutErroring(t *testing.T) {
	// Sub itself only enforces the 128-bit range, not non-negativity (I1);
	// callers check IsNegative explicitly before committing the result.
	b := NewBalance(10)
	after, err := b.Sub(50)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !after.IsNegative() {
		t.Fatal("expected a transient negative balance")
	}
}

func TestBalanceParseRoundTrip(t *testing.T) {
	b := NewBalance(-42)
	parsed, ok := ParseBalance(b.String())
	if !ok {
		t.Fatalf("ParseBalance(%q) failed", b.String())
	}
	if parsed.Cmp(b) != 0 {
		t.Fatalf("round-tripped balance %s != original %s", parsed, b)
	}
}

func TestParseBalanceRejectsGarbage(t *testing.T) {
	if _, ok := ParseBalance("not-a-number"); ok {
		t.Fatal("expected ParseBalance to reject a non-numeric string")
	}
}

func TestAccountIdDeriveAndEqual(t *testing.T) {
	parent := NewAccountId(0)
	child := parent.Derive(3)

	want := NewAccountId(0, 3)
	if !child.Equal(want) {
		t.Fatalf("Derive = %s, want %s", child, want)
	}
	if child.Equal(parent) {
		t.Fatal("a derived child must not equal its parent")
	}
}

func TestAccountIdKeyIsStableAndDistinct(t *testing.T) {
	a := NewAccountId(1, 2)
	b := NewAccountId(1, 2)
	c := NewAccountId(1, 3)

	if a.Key() != b.Key() {
		t.Fatal("identical account ids must produce identical keys")
	}
	if a.Key() == c.Key() {
		t.Fatal("distinct account ids must not collide")
	}
}

func TestAccountIdFirst(t *testing.T) {
	id := NewAccountId(7, 8, 9)
	if id.First() != 7 {
		t.Fatalf("First() = %d, want 7", id.First())
	}
}
