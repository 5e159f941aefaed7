package csvutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_HeaderLookup(t *testing.T) {
	in := "\ufeffID, Transaction Date ,VAT-Amount\n1,2026-01-02,12\n2,2026-01-03\n"

	tbl, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	idx, ok := tbl.Index("date", "transaction_date")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	vat, err := tbl.Require("vat_amount")
	require.NoError(t, err)
	assert.Equal(t, 2, vat)

	_, err = tbl.Require("amount")
	assert.ErrorIs(t, err, ErrMissingColumn)

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "", Field(tbl.Rows[1], vat), "short rows read as empty")
	id, _ := tbl.Index("id")
	assert.Equal(t, "1", Field(tbl.Rows[0], id))
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Read(strings.NewReader("a,b\n\"unterminated,1\n"))
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2026-01-05", "2026/01/05", "01/05/2026", "1/5/2026", "05-01-2026", "Jan 5, 2026", "05 Jan 2026"} {
		d, ok := ParseDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, "2026-01-05", d.Format("2006-01-02"), raw)
	}

	_, ok := ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("someday")
	assert.False(t, ok)
}

func TestFingerprint(t *testing.T) {
	row := []string{"", "2026-01-05", "Rent", "1000"}

	a := Fingerprint("purchases", 1, row)
	assert.Equal(t, a, Fingerprint("purchases", 1, row), "stable across calls")
	assert.NotEqual(t, a, Fingerprint("purchases", 2, row), "row number is part of the id")
	assert.NotEqual(t, a, Fingerprint("sales", 1, row))
	assert.True(t, strings.HasPrefix(a, "row-"))
	assert.Len(t, a, len("row-")+32)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank([]string{"", "  "}))
	assert.False(t, IsBlank([]string{"", "x"}))
}

func TestIDSet_Unique(t *testing.T) {
	ids := make(IDSet)

	assert.Equal(t, "INV-1", ids.Unique("INV-1", 1))
	assert.Equal(t, "INV-2", ids.Unique("INV-2", 2))
	assert.Equal(t, "INV-1#row3", ids.Unique("INV-1", 3))
	assert.Equal(t, "INV-1#row4", ids.Unique("INV-1", 4))

	// An explicit id that looks like a generated one still gets its own slot.
	clash := make(IDSet)
	clash.Unique("A", 1)
	clash.Unique("A#row3", 2)
	assert.Equal(t, "A#row3-2", clash.Unique("A", 3))
}
