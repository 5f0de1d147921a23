package getapr

import (
	"errors"
	"testing"

	"github.com/nexaddr/getapr/internal/addrx"
)

func TestErrBadAddressAliasesAddrxSentinel(t *testing.T) {
	_, err := addrx.Parse("not-an-address", nil)
	if !errors.Is(err, ErrBadAddress) {
		t.Fatal("expected ErrBadAddress to match addrx.BadAddress via errors.Is")
	}
}

func TestFamilyConstantsAreDistinct(t *testing.T) {
	if FamilyIPv4 == FamilyIPv6 {
		t.Fatal("FamilyIPv4 and FamilyIPv6 must be distinct")
	}
}
