// Package dumpx renders Go values as human-readable structured dumps for
// debugging/observability logging, adapted from the teacher's
// pkg/fmtt/printe.go (which dumped error chains); here it dumps
// connectivity state instead of errors.
package dumpx

import "github.com/davecgh/go-spew/spew"

var config = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Sdump renders v as a multi-line structured dump, suitable for a single
// log field.
func Sdump(v interface{}) string {
	return config.Sdump(v)
}
