package addrx

import "testing"

func fakeZoneResolver(t *testing.T) ZoneResolver {
	t.Helper()
	return func(name string) (int, error) {
		switch name {
		case "eth0":
			return 2, nil
		case "eth1":
			return 3, nil
		default:
			return 0, BadAddress
		}
	}
}

func TestParseClassification(t *testing.T) {
	resolve := fakeZoneResolver(t)

	tests := []struct {
		name       string
		in         string
		wantVer    int
		loopback   bool
		linkLocal  bool
		rfc1918    bool
		ula        bool
		global     bool
	}{
		{"v4 global", "198.51.100.7", 4, false, false, false, false, true},
		{"v4 rfc1918 10/8", "10.0.0.7", 4, false, false, true, false, false},
		{"v4 rfc1918 192.168", "192.168.1.5", 4, false, false, true, false, false},
		{"v4 link-local", "169.254.1.1", 4, false, true, false, false, false},
		{"v4 loopback", "127.0.0.1", 4, true, false, false, false, false},
		{"v6 global", "2001:db8::1", 6, false, false, false, false, true},
		{"v6 ula fd", "fd00::1", 6, false, false, false, true, false},
		{"v6 ula fc", "fc00::1", 6, false, false, false, true, false},
		{"v6 link-local", "fe80::1%eth0", 6, false, true, false, false, false},
		{"v6 loopback", "::1", 6, true, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.in, resolve)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got := a.Version(); got != tt.wantVer {
				t.Errorf("Version() = %d, want %d", got, tt.wantVer)
			}
			if got := a.IsLoopback(); got != tt.loopback {
				t.Errorf("IsLoopback() = %v, want %v", got, tt.loopback)
			}
			if got := a.IsLinkLocal(); got != tt.linkLocal {
				t.Errorf("IsLinkLocal() = %v, want %v", got, tt.linkLocal)
			}
			if got := a.IsRFC1918(); got != tt.rfc1918 {
				t.Errorf("IsRFC1918() = %v, want %v", got, tt.rfc1918)
			}
			if got := a.IsULA(); got != tt.ula {
				t.Errorf("IsULA() = %v, want %v", got, tt.ula)
			}
			if got := a.IsGlobal(); got != tt.global {
				t.Errorf("IsGlobal() = %v, want %v", got, tt.global)
			}
		})
	}
}

func TestParseBadAddress(t *testing.T) {
	_, err := Parse("not-an-address", nil)
	if err == nil {
		t.Fatal("expected error for malformed literal")
	}
}

func TestParseBadZone(t *testing.T) {
	_, err := Parse("fe80::1%nonexistent", fakeZoneResolver(t))
	if err == nil {
		t.Fatal("expected error for unresolvable zone")
	}
}

// TestRoundTrip covers invariant I7: classifying and re-serializing
// yields the canonical form, ignoring hex-digit case.
func TestRoundTrip(t *testing.T) {
	resolve := fakeZoneResolver(t)
	cases := []string{
		"198.51.100.7",
		"2001:DB8::1",
		"fd00::1",
		"fe80::1%eth0",
		"::1",
		"127.0.0.1",
	}
	for _, in := range cases {
		a, err := Parse(in, resolve)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		canon, err := Parse(a.String(), resolve)
		if err != nil {
			t.Fatalf("re-Parse(%q): %v", a.String(), err)
		}
		if canon.String() != a.String() {
			t.Errorf("round trip mismatch: %q -> %q -> %q", in, a.String(), canon.String())
		}
	}
}

func TestEqualZoneSensitive(t *testing.T) {
	resolve := fakeZoneResolver(t)
	a, _ := Parse("fe80::1%eth0", resolve)
	b, _ := Parse("fe80::1%eth1", resolve)
	c, _ := Parse("fe80::1%2", resolve) // numeric form of eth0's index

	if a.Equal(b) {
		t.Error("addresses with different zones must not be equal")
	}
	if !a.Equal(c) {
		t.Error("addresses with the same numeric zone must be equal regardless of spelling")
	}
}

func TestEqualVersionAndValue(t *testing.T) {
	a := MustParse("198.51.100.7")
	b := MustParse("198.51.100.7")
	c := MustParse("198.51.100.8")
	if !a.Equal(b) {
		t.Error("identical v4 addresses must be equal")
	}
	if a.Equal(c) {
		t.Error("distinct v4 addresses must not be equal")
	}
}

func TestUsableAsMapKey(t *testing.T) {
	m := map[Address]int{}
	a := MustParse("2001:db8::1")
	m[a] = 42
	if m[MustParse("2001:db8::1")] != 42 {
		t.Error("Address must be usable as a comparable map key")
	}
}
