package feed

import "testing"

func TestNotifierFansOut(t *testing.T) {
	n := NewNotifier()

	a, b := 0, 0
	unsubA := n.Subscribe(func() { a++ })
	unsubB := n.Subscribe(func() { b++ })

	n.Notify()
	if a != 1 || b != 1 {
		t.Fatalf("Expected both subscribers fired once, got %d and %d", a, b)
	}

	unsubA()
	n.Notify()
	if a != 1 {
		t.Errorf("Unsubscribed callback fired, count %d", a)
	}
	if b != 2 {
		t.Errorf("Expected remaining subscriber fired again, got %d", b)
	}

	// Unsubscribing twice is harmless.
	unsubA()
	unsubB()
	n.Notify()
	if b != 2 {
		t.Errorf("Expected no further deliveries, got %d", b)
	}
}
