package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vatrecon/backend/src/models"
)

func TestGetParser(t *testing.T) {
	tests := []struct {
		source string
		csv    string
		want   models.SourceType
	}{
		{SourceSales, "id,amount\nS1,100\n", models.SourceSalesRecord},
		{" Purchases ", "id,amount\nP1,100\n", models.SourcePurchaseRecord},
		{SourceBank, "id,amount\nB1,100\n", models.SourceBankStatement},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			p, err := GetParser(tt.source)
			require.NoError(t, err)

			txs, err := p.Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.Equal(t, tt.want, txs[0].SourceType)

			st, err := SourceTypeOf(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st)
		})
	}
}

func TestGetParser_Unknown(t *testing.T) {
	_, err := GetParser("receipts")
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = SourceTypeOf("")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
