package ringbuffer

import "testing"

func TestNewFloatZeroFilled(t *testing.T) {
	buffer := NewFloat(4)
	for i, v := range buffer.Values() {
		if v != 0 {
			t.Errorf("index %v: got %v, expected 0", i, v)
		}
	}
	if buffer.Len() != 4 {
		t.Errorf("got capacity %v, expected 4", buffer.Len())
	}
}

func TestPushOverwritesOldest(t *testing.T) {
	buffer := NewFloat(3)
	for _, v := range []float64{1, 2, 3, 4} {
		buffer.Push(v)
	}

	sum := 0.0
	for _, v := range buffer.Values() {
		sum += v
	}
	// 1 was overwritten by 4, leaving {2, 3, 4}
	if sum != 9 {
		t.Errorf("got sum %v, expected 9", sum)
	}
}

func TestReset(t *testing.T) {
	buffer := NewFloat(3)
	buffer.Push(5)
	buffer.Push(6)
	buffer.Reset()

	for i, v := range buffer.Values() {
		if v != 0 {
			t.Errorf("index %v: got %v after Reset, expected 0", i, v)
		}
	}

	// Pushing after Reset starts from the front again
	buffer.Push(7)
	if buffer.Values()[0] != 7 {
		t.Errorf("got %v at front after Reset, expected 7",
			buffer.Values()[0])
	}
}

func TestValuesReturnsCopy(t *testing.T) {
	buffer := NewFloat(2)
	buffer.Push(1)

	values := buffer.Values()
	values[0] = 100

	if buffer.Values()[0] != 1 {
		t.Error("mutating the returned slice changed the buffer")
	}
}

func TestNewFloatPanicsOnNonPositiveCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for capacity 0")
		}
	}()
	NewFloat(0)
}
