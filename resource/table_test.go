package resource

import (
	"errors"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h, err := table.Insert(1, "test")
	if err != nil {
		t.Fatal(err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %v, %v", val, ok)
	}

	if _, ok = table.GetTyped(h, 1); !ok {
		t.Fatal("GetTyped with correct type failed")
	}
	if _, ok = table.GetTyped(h, 2); ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	val, err = table.Remove(h)
	if err != nil || val != "test" {
		t.Fatalf("Remove = %v, %v", val, err)
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_Borrow(t *testing.T) {
	table := NewTable()
	h, _ := table.Insert(3, "drv")

	if _, _, ok := table.Borrow(h, 4); ok {
		t.Fatal("Borrow with wrong type should fail")
	}

	v, release, ok := table.Borrow(h, 3)
	if !ok || v != "drv" {
		t.Fatalf("Borrow = %v, %v", v, ok)
	}
	if _, err := table.Remove(h); !errors.Is(err, ErrOutstandingBorrow) {
		t.Fatalf("Remove during borrow err = %v", err)
	}

	release()
	release() // idempotent

	if _, err := table.Remove(h); err != nil {
		t.Fatalf("Remove after release: %v", err)
	}
	if _, _, ok := table.Borrow(h, 3); ok {
		t.Fatal("Borrow of removed handle should fail")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h, _ := table.Insert(1, "test")
	_, release, _ := table.Borrow(h, 1)
	release()
	table.Remove(h)

	want := []EventType{EventCreated, EventBorrowed, EventBorrowReturned, EventDropped}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, e := range obs.events {
		if e.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, e.Type, want[i])
		}
		if e.Handle != h {
			t.Errorf("event %d handle = %d, want %d", i, e.Handle, h)
		}
	}

	table.Unsubscribe(obs)
	table.Insert(1, "test2")
	if len(obs.events) != len(want) {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable()
	var created int
	table.Subscribe(ObserverFunc(func(e Event) {
		if e.Type == EventCreated {
			created++
		}
	}))
	table.Insert(1, "a")
	table.Insert(1, "b")
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
}

func TestTable_Clear(t *testing.T) {
	table := NewTable()

	table.Insert(1, "a")
	table.Insert(1, "b")
	h, _ := table.Insert(1, "c")
	_, release, _ := table.Borrow(h, 1)

	table.Clear()

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (borrowed entry survives)", table.Len())
	}
	release()
	table.Clear()
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	table.Insert(1, "a")

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := table.Insert(1, "c"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Insert after Close err = %v, want %v", err, ErrClosed)
	}
}

func TestTable_DropperInterface(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h, _ := table.Insert(1, d)
	table.Remove(h)

	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
}

func TestTyped(t *testing.T) {
	type port struct{ id int }
	tt := NewTyped[*port]()

	h, err := tt.Insert(&port{id: 7})
	if err != nil {
		t.Fatal(err)
	}
	p, ok := tt.Get(h)
	if !ok || p.id != 7 {
		t.Fatalf("Get = %v, %v", p, ok)
	}

	var seen int
	tt.Each(func(_ Handle, p *port) bool {
		seen += p.id
		return true
	})
	if seen != 7 {
		t.Errorf("Each visited sum %d, want 7", seen)
	}

	if _, ok := tt.Remove(h); !ok {
		t.Fatal("Remove failed")
	}
	if _, ok := tt.Get(h); ok {
		t.Fatal("Get after Remove should fail")
	}
	if tt.Len() != 0 {
		t.Errorf("Len = %d, want 0", tt.Len())
	}
}
