package task

import (
	"reflect"
	"testing"
)

func TestEnvironmentInsertionOrder(t *testing.T) {
	env := NewEnvironment()
	env.Set("B", "2")
	env.Set("A", "1")
	env.Set("C", "3")

	want := []string{"B", "A", "C"}
	if got := env.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestEnvironmentOverwriteKeepsPosition(t *testing.T) {
	// Last-write-wins on value, but the key keeps its original slot:
	// language-provider values overwrite well-known ones without
	// reordering the environment.
	env := NewEnvironment()
	env.Set(VarRow, "1")
	env.Set(VarSymbol, "old")
	env.Set(VarSymbol, "new")

	if env.Len() != 2 {
		t.Errorf("Len = %d, want 2", env.Len())
	}
	if v, _ := env.Get(VarSymbol); v != "new" {
		t.Errorf("SYMBOL = %q, want new", v)
	}
	want := []string{VarRow, VarSymbol}
	if got := env.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestEnvironmentGetMissing(t *testing.T) {
	env := NewEnvironment()
	if _, ok := env.Get("MISSING"); ok {
		t.Error("Get returned true for missing key")
	}
}

func TestEnvironmentClone(t *testing.T) {
	env := NewEnvironment()
	env.Set("A", "1")

	clone := env.Clone()
	clone.Set("A", "changed")
	clone.Set("B", "2")

	if v, _ := env.Get("A"); v != "1" {
		t.Errorf("original mutated through clone: A = %q", v)
	}
	if env.Len() != 1 {
		t.Errorf("original Len = %d, want 1", env.Len())
	}
}

func TestEnvironmentEqual(t *testing.T) {
	a := NewEnvironment()
	a.Set("X", "1")
	a.Set("Y", "2")

	b := NewEnvironment()
	b.Set("X", "1")
	b.Set("Y", "2")

	if !a.Equal(b) {
		t.Error("identical environments should be equal")
	}

	// Same pairs, different insertion order: not equal.
	c := NewEnvironment()
	c.Set("Y", "2")
	c.Set("X", "1")
	if a.Equal(c) {
		t.Error("environments with different insertion order should not be equal")
	}

	b.Set("Y", "other")
	if a.Equal(b) {
		t.Error("environments with different values should not be equal")
	}
}
