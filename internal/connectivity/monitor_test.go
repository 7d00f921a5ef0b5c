package connectivity

import "testing"

func TestMonitorNotifiesOnTransitionsOnly(t *testing.T) {
	m := NewMonitor(false)

	var got []bool
	m.Subscribe(func(online bool) {
		got = append(got, online)
	})

	m.Set(false) // no transition
	m.Set(true)
	m.Set(true) // no transition
	m.Set(false)

	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Errorf("notifications = %v, want [true false]", got)
	}
	if m.Online() {
		t.Error("Online() = true, want false")
	}
}

func TestMonitorNotificationIsSynchronous(t *testing.T) {
	m := NewMonitor(false)

	fired := false
	m.Subscribe(func(online bool) {
		fired = true
	})

	m.Set(true)
	if !fired {
		t.Error("subscriber had not run when Set returned")
	}
}

func TestMonitorUnsubscribe(t *testing.T) {
	m := NewMonitor(false)

	calls := 0
	unsubscribe := m.Subscribe(func(online bool) {
		calls++
	})

	m.Set(true)
	unsubscribe()
	m.Set(false)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestMonitorMultipleSubscribers(t *testing.T) {
	m := NewMonitor(true)

	a, b := 0, 0
	m.Subscribe(func(bool) { a++ })
	m.Subscribe(func(bool) { b++ })

	m.Set(false)
	if a != 1 || b != 1 {
		t.Errorf("a = %d, b = %d, want both 1", a, b)
	}
}
