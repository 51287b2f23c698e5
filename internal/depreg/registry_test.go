package depreg

import "testing"

func TestRegister_InactiveIsNoOp(t *testing.T) {
	r := New()
	r.Register("a.s")
	if got := r.Paths(); len(got) != 0 {
		t.Fatalf("expected no paths registered while inactive, got %v", got)
	}
}

func TestRegister_DedupesUnderInsertionOrder(t *testing.T) {
	r := New()
	r.EnableOmnibor()
	r.Register("a.s")
	r.Register("b.s")
	r.Register("a.s")
	r.Register("c.s")

	got := r.Paths()
	want := []string{"a.s", "b.s", "c.s"}
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Paths() = %v, want %v", got, want)
		}
	}
}

func TestActive_RequiresFlagOrOutput(t *testing.T) {
	r := New()
	if r.Active() {
		t.Fatal("fresh registry must not be active")
	}
	r.StartDependencies("out.d")
	if !r.Active() {
		t.Fatal("StartDependencies must make the registry active")
	}

	r2 := New()
	r2.EnableOmnibor()
	if !r2.Active() {
		t.Fatal("EnableOmnibor must make the registry active")
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	r := New()
	r.StartDependencies("out.d")
	r.EnableOmnibor()
	r.Register("a.s")

	r.Reset()

	if r.Active() {
		t.Fatal("Reset must clear the active flags")
	}
	if len(r.Paths()) != 0 {
		t.Fatal("Reset must clear registered paths")
	}
	if _, ok := r.DepOutputPath(); ok {
		t.Fatal("Reset must clear the dep-output path")
	}
}

func TestPaths_ReturnsIndependentCopy(t *testing.T) {
	r := New()
	r.EnableOmnibor()
	r.Register("a.s")

	got := r.Paths()
	got[0] = "mutated"

	if r.Paths()[0] != "a.s" {
		t.Fatal("Paths() must return a copy, not the internal slice")
	}
}
