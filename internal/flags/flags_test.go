package flags

import "testing"

func TestMonotonic(t *testing.T) {
	f := &Flags{}
	if f.GUAOk() {
		t.Fatal("GUA_ok should start false")
	}
	f.MarkGUAOk()
	if !f.GUAOk() {
		t.Fatal("GUA_ok should latch true")
	}
	// Nothing un-latches a monotonic flag; Snapshot stays consistent.
	snap := f.Snapshot()
	if !snap.GUAOk {
		t.Fatal("snapshot should reflect latched GUA_ok")
	}
}

func TestULAPresentIsRefreshable(t *testing.T) {
	f := &Flags{}
	f.SetULAPresent(true)
	if !f.ULAPresent() {
		t.Fatal("expected ULA_present true after Set(true)")
	}
	f.SetULAPresent(false)
	if f.ULAPresent() {
		t.Fatal("ULA_present must be refreshable to false, unlike _ok/_tried flags")
	}
}

func TestAsMapKeys(t *testing.T) {
	f := &Flags{}
	f.MarkIPv4Ok()
	f.SetRFC1918(true)
	m := f.Snapshot().AsMap()
	want := []string{"GUA_ok", "ULA_ok", "LLA_ok", "IPv4_ok", "ULA_present", "NPTv6", "RFC1918", "NAT44"}
	for _, k := range want {
		if _, ok := m[k]; !ok {
			t.Errorf("missing status key %q", k)
		}
	}
	if !m["IPv4_ok"] || !m["RFC1918"] {
		t.Errorf("expected IPv4_ok and RFC1918 true, got %+v", m)
	}
}
