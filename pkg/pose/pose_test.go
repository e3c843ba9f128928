package pose

import (
	"errors"
	"testing"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	cat, err := NewCatalog(Defaults())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	want := [NumFingers]int{90, 180, 180, 180, 180}
	for _, name := range []string{"fist", "FIST", "Fist"} {
		got, ok := cat.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q): not found", name)
		}
		if got != want {
			t.Errorf("Lookup(%q): got %v, want %v", name, got, want)
		}
	}
}

func TestLookupRejectsPartialMatch(t *testing.T) {
	cat, err := NewCatalog(Defaults())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	for _, name := range []string{"fis", "fists", "f", ""} {
		if _, ok := cat.Lookup(name); ok {
			t.Errorf("Lookup(%q): expected not found", name)
		}
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]Pose{
		{Name: "Fist"},
		{Name: "fist"},
	})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("got %v, want ErrDuplicateName", err)
	}
}

func TestNewCatalogClampsAngles(t *testing.T) {
	cat, err := NewCatalog([]Pose{
		{Name: "weird", Angles: [NumFingers]int{-20, 300, 90, 0, 181}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	got, _ := cat.Lookup("weird")
	want := [NumFingers]int{0, 180, 90, 0, 180}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNamesPreserveOrder(t *testing.T) {
	poses := []Pose{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	cat, err := NewCatalog(poses)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	names := cat.Names()
	for i, want := range []string{"b", "a", "c"} {
		if names[i] != want {
			t.Errorf("names[%d]: got %q, want %q", i, names[i], want)
		}
	}
}

func TestMergeOverridesByName(t *testing.T) {
	base := []Pose{
		{Name: "open", Angles: [NumFingers]int{0, 0, 0, 0, 0}},
		{Name: "fist", Angles: [NumFingers]int{90, 180, 180, 180, 180}},
	}
	extra := []Pose{
		{Name: "FIST", Angles: [NumFingers]int{80, 170, 170, 170, 170}},
		{Name: "wave", Angles: [NumFingers]int{0, 90, 90, 90, 90}},
	}

	merged := Merge(base, extra)
	if len(merged) != 3 {
		t.Fatalf("merged len: got %d, want 3", len(merged))
	}
	if merged[1].Angles[0] != 80 {
		t.Errorf("fist should be overridden, got %v", merged[1].Angles)
	}
	if merged[2].Name != "wave" {
		t.Errorf("new pose should append, got %q", merged[2].Name)
	}
}
