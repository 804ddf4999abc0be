package resource

import (
	"sync"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	// Insert
	h := table.Insert("test", false)
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Get
	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Persistent(h) {
		t.Fatal("Expected non-persistent hold")
	}

	// Remove
	val, ok = table.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}

	// Double remove is a no-op
	if _, ok := table.Remove(h); ok {
		t.Fatal("Expected second Remove to fail")
	}
}

func TestTable_ZeroHandle(t *testing.T) {
	table := NewTable()
	if _, ok := table.Get(0); ok {
		t.Fatal("Handle 0 must never resolve")
	}
	if _, ok := table.Remove(0); ok {
		t.Fatal("Handle 0 must never remove")
	}
}

func TestTable_StaleHandle(t *testing.T) {
	table := NewTable()

	old := table.Insert("first", false)
	table.Remove(old)

	fresh := table.Insert("second", false)
	if fresh == old {
		t.Fatal("Reused slot must produce a new handle")
	}
	if _, ok := table.Get(old); ok {
		t.Fatal("Stale handle resolved to a newer value")
	}
	val, ok := table.Get(fresh)
	if !ok || val != "second" {
		t.Fatalf("Expected 'second', got %v", val)
	}
}

func TestTable_Persistent(t *testing.T) {
	table := NewTable()
	h := table.Insert(42, true)
	if !table.Persistent(h) {
		t.Fatal("Expected persistent hold")
	}
	table.Remove(h)
	if table.Persistent(h) {
		t.Fatal("Released handle is not persistent")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	unsubscribe := table.Subscribe(obs)

	// Insert should trigger EventCreated
	h := table.Insert("test", true)
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated {
		t.Fatal("Expected EventCreated")
	}
	if obs.events[0].Handle != h || !obs.events[0].Persistent {
		t.Fatal("Wrong handle in event")
	}

	// Remove should trigger EventReleased
	table.Remove(h)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventReleased {
		t.Fatal("Expected EventReleased")
	}

	unsubscribe()
	table.Insert("test2", false)
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events after unsubscribe")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable()
	var released int
	unsubscribe := table.Subscribe(ObserverFunc(func(e Event) {
		if e.Type == EventReleased {
			released++
		}
	}))
	defer unsubscribe()

	table.Remove(table.Insert("x", false))
	if released != 1 {
		t.Fatalf("Expected 1 release, got %d", released)
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()
	table.Insert("a", false)
	table.Insert("b", false)
	table.Remove(table.Insert("c", false))

	seen := 0
	table.Each(func(h Handle, v any) bool {
		got, ok := table.Get(h)
		if !ok || got != v {
			t.Errorf("Each handle %d does not resolve to %v", h, v)
		}
		seen++
		return true
	})
	if seen != 2 {
		t.Fatalf("Expected 2 live handles, got %d", seen)
	}
}

func TestTable_Clear(t *testing.T) {
	table := NewTable()

	table.Insert("a", false)
	table.Insert("b", true)
	table.Insert("c", false)

	if table.Len() != 3 {
		t.Fatal("Expected Len() == 3")
	}

	table.Clear()

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()

	table.Insert("a", false)
	table.Insert("b", false)

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if table.Len() != 0 {
		t.Fatal("Expected Close to release all handles")
	}

	// Insert should fail after Close
	if h := table.Insert("c", false); h != 0 {
		t.Fatal("Expected Insert to fail after Close")
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_DropperInterface(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	h := table.Insert(d, false)
	table.Remove(h)

	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := table.Insert(n*1000+j, false)
				if v, ok := table.Get(h); !ok || v != n*1000+j {
					t.Errorf("Get(%d) = %v, %v", h, v, ok)
				}
				table.Remove(h)
			}
		}(i)
	}
	wg.Wait()

	if table.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", table.Len())
	}
}
