package journal

import "testing"

func TestGrowableBuffer_SendReceiveOrder(t *testing.T) {
	b := NewGrowableBuffer[int](4)

	for i := 1; i <= 3; i++ {
		if !b.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	for want := 1; want <= 3; want++ {
		got, ok := b.TryReceive()
		if !ok {
			t.Fatalf("TryReceive returned false, want item %d", want)
		}
		if got != want {
			t.Errorf("TryReceive = %d, want %d (FIFO order)", got, want)
		}
	}

	if _, ok := b.TryReceive(); ok {
		t.Error("TryReceive on empty buffer returned true")
	}
}

func TestGrowableBuffer_GrowsUnderLoad(t *testing.T) {
	b := NewGrowableBuffer[int](2)

	for i := 0; i < 100; i++ {
		if !b.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	if b.Len() != 100 {
		t.Errorf("Len = %d, want 100", b.Len())
	}
	if b.Cap() < 100 {
		t.Errorf("Cap = %d, want >= 100 after growth", b.Cap())
	}

	// Order survives resizes.
	for want := 0; want < 100; want++ {
		got, ok := b.TryReceive()
		if !ok || got != want {
			t.Fatalf("TryReceive = %d/%v, want %d", got, ok, want)
		}
	}
}

func TestGrowableBuffer_DrainTo(t *testing.T) {
	b := NewGrowableBuffer[int](8)
	for i := 0; i < 5; i++ {
		b.Send(i)
	}

	first := b.DrainTo(3)
	if len(first) != 3 || first[0] != 0 || first[2] != 2 {
		t.Errorf("DrainTo(3) = %v, want [0 1 2]", first)
	}

	rest := b.DrainTo(0)
	if len(rest) != 2 || rest[0] != 3 || rest[1] != 4 {
		t.Errorf("DrainTo(0) = %v, want [3 4]", rest)
	}

	if b.DrainTo(0) != nil {
		t.Error("DrainTo on empty buffer should return nil")
	}
}

func TestGrowableBuffer_CloseRejectsSends(t *testing.T) {
	b := NewGrowableBuffer[int](4)
	b.Send(1)
	b.Close()

	if b.Send(2) {
		t.Error("Send after Close returned true")
	}

	// Buffered items remain drainable after close.
	got, ok := b.TryReceive()
	if !ok || got != 1 {
		t.Errorf("TryReceive after Close = %d/%v, want 1/true", got, ok)
	}
}
