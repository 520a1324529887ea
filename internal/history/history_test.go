package history

import (
	"reflect"
	"testing"
)

func TestPushAndEviction(t *testing.T) {
	r := New(3)
	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		r.Push(p)
	}
	if got, want := r.Routes(), []string{"/b", "/c", "/d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Routes() = %v, want %v", got, want)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestPushSkipsDuplicateOfLast(t *testing.T) {
	r := New(5)
	if !r.Push("/a") {
		t.Error("first Push(/a) = false, want true")
	}
	if r.Push("/a") {
		t.Error("second Push(/a) = true, want false")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	// Non-adjacent repeats are fine.
	r.Push("/b")
	if !r.Push("/a") {
		t.Error("Push(/a) after /b = false, want true")
	}
}

func TestPreviousAndPop(t *testing.T) {
	r := New(5)
	if _, ok := r.Previous(); ok {
		t.Error("Previous() on empty ring = ok")
	}
	r.Push("/a")
	if _, ok := r.Previous(); ok {
		t.Error("Previous() with one entry = ok")
	}
	r.Push("/b")
	prev, ok := r.Previous()
	if !ok || prev != "/a" {
		t.Errorf("Previous() = %q, %v, want /a, true", prev, ok)
	}
	top, ok := r.Pop()
	if !ok || top != "/b" {
		t.Errorf("Pop() = %q, %v, want /b, true", top, ok)
	}
	if last, _ := r.Last(); last != "/a" {
		t.Errorf("Last() after Pop = %q, want /a", last)
	}
}

func TestPopEmpty(t *testing.T) {
	r := New(2)
	if _, ok := r.Pop(); ok {
		t.Error("Pop() on empty ring = ok")
	}
}

func TestNewFallbackCapacity(t *testing.T) {
	r := New(0)
	for _, p := range []string{"/1", "/2", "/3", "/4", "/5", "/6"} {
		r.Push(p)
	}
	if r.Len() != DefaultCapacity {
		t.Errorf("Len() = %d, want %d", r.Len(), DefaultCapacity)
	}
}
