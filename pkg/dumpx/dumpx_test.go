package dumpx

import (
	"strings"
	"testing"
)

func TestSdumpRendersFieldNames(t *testing.T) {
	type sample struct {
		Name  string
		Count int
	}
	out := Sdump(sample{Name: "eth0", Count: 3})
	if !strings.Contains(out, "Name") || !strings.Contains(out, "eth0") {
		t.Errorf("expected dump to include field name and value, got: %s", out)
	}
}

func TestSdumpHandlesNil(t *testing.T) {
	out := Sdump(nil)
	if out == "" {
		t.Error("expected a non-empty dump even for nil")
	}
}
