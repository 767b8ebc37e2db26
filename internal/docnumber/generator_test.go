package docnumber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noneIssued() (string, bool, error) { return "", false, nil }

func lastIssued(code string) LastFunc {
	return func() (string, bool, error) { return code, true, nil }
}

func existsIn(taken ...string) ExistsFunc {
	set := map[string]struct{}{}
	for _, code := range taken {
		set[code] = struct{}{}
	}
	return func(code string) (bool, error) {
		_, ok := set[code]
		return ok, nil
	}
}

func TestGenerateFirstCode(t *testing.T) {
	code, err := Generate("OPE", existsIn(), noneIssued)
	require.NoError(t, err)
	assert.Equal(t, "OPE-001", code)
}

func TestGenerateIncrementsLast(t *testing.T) {
	code, err := Generate("OPE", existsIn(), lastIssued("OPE-005"))
	require.NoError(t, err)
	assert.Equal(t, "OPE-006", code)
}

func TestGenerateSkipsCollision(t *testing.T) {
	// OPE-006 was taken between the last fetch and the existence check; the
	// retry re-reads the last issued code and lands on OPE-007.
	calls := 0
	last := func() (string, bool, error) {
		calls++
		if calls == 1 {
			return "OPE-005", true, nil
		}
		return "OPE-006", true, nil
	}

	code, err := Generate("OPE", existsIn("OPE-006"), last)
	require.NoError(t, err)
	assert.Equal(t, "OPE-007", code)
}

func TestGenerateForeignLastCodeStartsAtOne(t *testing.T) {
	code, err := Generate("FAC", existsIn(), lastIssued("WRONG-123"))
	require.NoError(t, err)
	assert.Equal(t, "FAC-001", code)
}

func TestGenerateUnparsableSuffixStartsAtOne(t *testing.T) {
	code, err := Generate("FAC", existsIn(), lastIssued("FAC-XYZ"))
	require.NoError(t, err)
	assert.Equal(t, "FAC-001", code)
}

func TestGenerateGrowsBeyondThreeDigits(t *testing.T) {
	code, err := Generate("DEP", existsIn(), lastIssued("DEP-999"))
	require.NoError(t, err)
	assert.Equal(t, "DEP-1000", code)
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	always := func(string) (bool, error) { return true, nil }
	_, err := Generate("FAC", always, lastIssued("FAC-001"))
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGenerateEmptyPrefix(t *testing.T) {
	_, err := Generate("  ", existsIn(), noneIssued)
	assert.Error(t, err)
}
