package sessionstore

import "testing"

type record struct {
	Value string `json:"value"`
	N     int    `json:"n"`
}

func TestMemoryBasicOperations(t *testing.T) {
	s := NewMemory[record]()

	if _, ok := s.Get("ana"); ok {
		t.Fatalf("Get on an empty store reported a hit")
	}
	if err := s.Set("ana", record{Value: "x", N: 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := s.Get("ana")
	if !ok || got.Value != "x" || got.N != 1 {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	if err := s.Set("ana", record{Value: "y", N: 2}); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if got, _ := s.Get("ana"); got.Value != "y" {
		t.Fatalf("overwrite lost: %+v", got)
	}

	if err := s.Delete("ana"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get("ana"); ok {
		t.Fatalf("deleted key still present")
	}
	if err := s.Delete("ana"); err != nil {
		t.Fatalf("Delete of an absent key must be a no-op: %v", err)
	}
}

func TestMemoryForEachAndLen(t *testing.T) {
	s := NewMemory[record]()
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(k, record{Value: k}); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	seen := map[string]string{}
	if err := s.ForEach(func(key string, v record) bool {
		seen[key] = v.Value
		return true
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if len(seen) != 3 || seen["b"] != "b" {
		t.Fatalf("ForEach visited %v", seen)
	}

	// Early termination stops the walk.
	visits := 0
	if err := s.ForEach(func(string, record) bool {
		visits++
		return false
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if visits != 1 {
		t.Fatalf("early stop visited %d entries", visits)
	}
}

// Mutating the store from inside the callback must not deadlock: ForEach
// walks a snapshot.
func TestMemoryForEachAllowsMutation(t *testing.T) {
	s := NewMemory[record]()
	s.Set("a", record{})
	s.Set("b", record{})

	if err := s.ForEach(func(key string, _ record) bool {
		if err := s.Delete(key); err != nil {
			t.Fatalf("Delete inside ForEach: %v", err)
		}
		return true
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len after sweep = %d", s.Len())
	}
}
