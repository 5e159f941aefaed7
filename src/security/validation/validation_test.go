package validation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePeriod(t *testing.T) {
	for _, ok := range []string{"2026", "2026-01", "2026-12", "2026-Q3", " 2026-02 "} {
		assert.NoError(t, ValidatePeriod(ok), ok)
	}
	for _, bad := range []string{"", "2026-13", "26-01", "2026-Q5", "January"} {
		err := ValidatePeriod(bad)
		assert.ErrorIs(t, err, ErrValidationFailed, bad)
	}
}

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID("3f1d6c1e-7d8a-4a55-9d9b-0d1c2b3a4f5e"))
	assert.ErrorIs(t, ValidateSessionID("not-a-uuid"), ErrValidationFailed)
}

func TestValidateTransactionID(t *testing.T) {
	assert.NoError(t, ValidateTransactionID(""))
	assert.NoError(t, ValidateTransactionID("INV-2026/001"))
	assert.ErrorIs(t, ValidateTransactionID("bad id;"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateTransactionID(strings.Repeat("a", MaxTransactionIDLength+1)), ErrValidationFailed)
}

func TestValidateDeclaredValues(t *testing.T) {
	known := func(k string) bool { return k == "vatable_sales" || k == "output_vat" }

	assert.NoError(t, ValidateDeclaredValues(map[string]decimal.Decimal{"vatable_sales": decimal.NewFromInt(10)}, known))
	assert.ErrorIs(t, ValidateDeclaredValues(nil, known), ErrValidationFailed)
	assert.ErrorIs(t, ValidateDeclaredValues(map[string]decimal.Decimal{"bogus": decimal.Zero}, known), ErrValidationFailed)
	assert.NoError(t, ValidateDeclaredValues(map[string]decimal.Decimal{"output_vat": decimal.NewFromInt(-1)}, known))
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Office  Supplies\t", "Office Supplies"},
		{"<b>Bold</b> & Co", "Bold & Co"},
		{"<script>alert(1)</script>Rent", "Rent"},
		{"Tom's\x00 diner", "Tom's diner"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanDescription(tt.in), tt.in)
	}

	long := strings.Repeat("é", MaxDescriptionLength+10)
	assert.Len(t, []rune(CleanDescription(long)), MaxDescriptionLength)
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.ErrorIs(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateClientContentType("image/png"), ErrValidationFailed)
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	t.Run("csv text", func(t *testing.T) {
		r := bytes.NewReader([]byte("id,date,amount\n1,2026-01-01,100\n"))
		ct, err := ValidateFileContentByMagicBytes(r)
		require.NoError(t, err)
		assert.Equal(t, "text/plain", ct)
		assert.Equal(t, r.Size(), int64(r.Len()), "reader rewound")
	})

	t.Run("binary", func(t *testing.T) {
		_, err := ValidateFileContentByMagicBytes(bytes.NewReader([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01}))
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ValidateFileContentByMagicBytes(bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}
