package queue

import (
	"errors"
	"testing"
)

func TestSendReceiveFIFOOrder(t *testing.T) {
	q := New(4)
	for i := 0; i < 4; i++ {
		if err := q.Send(i); err != nil {
			t.Fatalf("Send(%d): %v", i, err)
		}
	}
	for i := 0; i < 4; i++ {
		got, err := q.TryReceive()
		if err != nil {
			t.Fatalf("TryReceive: %v", err)
		}
		if got.(int) != i {
			t.Fatalf("TryReceive = %v, want %d", got, i)
		}
	}
}

func TestTryReceiveEmpty(t *testing.T) {
	q := New(2)
	if _, err := q.TryReceive(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("TryReceive on empty queue = %v, want ErrEmpty", err)
	}
}

func TestSendFull(t *testing.T) {
	q := New(2)
	if err := q.Send(1); err != nil {
		t.Fatal(err)
	}
	if err := q.Send(2); err != nil {
		t.Fatal(err)
	}
	if err := q.Send(3); !errors.Is(err, ErrFull) {
		t.Fatalf("Send on full queue = %v, want ErrFull", err)
	}
}

func TestWrapAround(t *testing.T) {
	q := New(3)
	q.Send(1)
	q.Send(2)
	q.TryReceive()
	q.Send(3)
	q.Send(4)
	var got []int
	for {
		v, err := q.TryReceive()
		if err != nil {
			break
		}
		got = append(got, v.(int))
	}
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
