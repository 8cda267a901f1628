package core

import "testing"

func withCleanRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := registry
	registry = make(map[string]CheckDefinition)
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
}

func constCheck(msgs ...string) CheckFunc {
	return func(*Season, *Repository) Problems {
		ps := make([]Problem, len(msgs))
		for i, m := range msgs {
			ps[i] = Problem{Message: m}
		}
		return Emit(ps...)
	}
}

func TestRegister(t *testing.T) {
	withCleanRegistry(t)

	Register(CheckDefinition{Name: "b", Run: constCheck()})
	Register(CheckDefinition{Name: "a", Run: constCheck()})

	if CheckCount() != 2 {
		t.Fatalf("CheckCount() = %d, want 2", CheckCount())
	}
	if _, ok := Get("a"); !ok {
		t.Error("Get(a) not found")
	}
	if _, ok := Get("missing"); ok {
		t.Error("Get(missing) found")
	}
	names := Names()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want sorted", names)
	}
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	withCleanRegistry(t)
	Register(CheckDefinition{Name: "dup", Run: constCheck()})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(CheckDefinition{Name: "dup", Run: constCheck()})
}

func TestRegister_PanicsWithoutRun(t *testing.T) {
	withCleanRegistry(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for check without run function")
		}
	}()
	Register(CheckDefinition{Name: "empty"})
}

func TestRun_ChecksAreIndependent(t *testing.T) {
	repo, err := Build(RawTables{})
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	a := CheckDefinition{Name: "a", Run: constCheck("a1", "a2")}
	b := CheckDefinition{Name: "b", Run: constCheck("b1")}

	ab, _ := Collect(Run(&Season{}, repo, a, b))
	ba, _ := Collect(Run(&Season{}, repo, b, a))
	if len(ab) != 3 || len(ba) != 3 {
		t.Fatalf("got %d and %d problems, want 3", len(ab), len(ba))
	}

	seen := make(map[string]int)
	for _, p := range ab {
		seen[p.Message]++
	}
	for _, p := range ba {
		seen[p.Message]--
	}
	for msg, n := range seen {
		if n != 0 {
			t.Errorf("problem %q differs between run orders", msg)
		}
	}
}

func TestRun_PinsNow(t *testing.T) {
	repo, _ := Build(RawTables{})
	var seen []*Season
	spy := CheckDefinition{Name: "spy", Run: func(s *Season, _ *Repository) Problems {
		seen = append(seen, s)
		return None()
	}}

	season := &Season{Key: "k"}
	Collect(Run(season, repo, spy, spy))

	if len(seen) != 2 || seen[0].Now.IsZero() || !seen[0].Now.Equal(seen[1].Now) {
		t.Fatalf("checks saw different or zero now: %v", seen)
	}
	if !season.Now.IsZero() {
		t.Error("Run mutated the caller's season")
	}
}
