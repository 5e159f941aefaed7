package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vatrecon/backend/src/models"
)

func TestMatch_WithinDateTolerance(t *testing.T) {
	records := []models.Transaction{dated(sale("r1", "1000.00", models.VatTypeVatable), "2026-01-05")}
	bank := []models.BankEntry{bankLine("b1", "1000.00", "2026-01-07", models.EntryCredit)}

	res := Match(records, bank, dec("0.01"), 3)

	require.Len(t, res.MatchedPairs, 1)
	pair := res.MatchedPairs[0]
	assert.Equal(t, "r1", pair.RecordID)
	assert.Equal(t, "b1", pair.BankID)
	require.NotNil(t, pair.DateDiffDays)
	assert.Equal(t, 2, *pair.DateDiffDays)
	assert.NotEmpty(t, pair.MatchGroupID)
	assert.Empty(t, res.UnmatchedRecords)
	assert.Empty(t, res.UnmatchedBankEntries)
	assert.Equal(t, 1.0, res.MatchRate)
}

func TestMatch_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		record models.Transaction
		bank   models.BankEntry
	}{
		{
			name:   "date outside tolerance",
			record: dated(sale("r1", "1000", models.VatTypeVatable), "2026-01-01"),
			bank:   bankLine("b1", "1000", "2026-01-05", models.EntryCredit),
		},
		{
			name:   "amount outside tolerance",
			record: dated(sale("r1", "100", models.VatTypeVatable), "2026-01-01"),
			bank:   bankLine("b1", "100.50", "2026-01-01", models.EntryCredit),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match([]models.Transaction{tt.record}, []models.BankEntry{tt.bank}, dec("0.01"), 3)

			assert.Empty(t, res.MatchedPairs)
			assert.Len(t, res.UnmatchedRecords, 1)
			assert.Len(t, res.UnmatchedBankEntries, 1)
			assert.Equal(t, 0.0, res.MatchRate)
		})
	}
}

func TestMatch_RelativeToleranceForLargeAmounts(t *testing.T) {
	// 0.1% of 100000 is 100, which is wider than the absolute 0.01.
	records := []models.Transaction{sale("r1", "100000", models.VatTypeVatable)}
	bank := []models.BankEntry{bankLine("b1", "99950", "", models.EntryCredit)}

	res := Match(records, bank, dec("0.01"), 3)

	require.Len(t, res.MatchedPairs, 1)
	assert.Nil(t, res.MatchedPairs[0].DateDiffDays, "no date on the bank side")
}

func TestMatch_PrefersClosestCandidate(t *testing.T) {
	records := []models.Transaction{dated(sale("r1", "500", models.VatTypeVatable), "2026-01-10")}
	bank := []models.BankEntry{
		bankLine("far", "500", "2026-01-12", models.EntryCredit),
		bankLine("near", "500", "2026-01-10", models.EntryCredit),
	}

	res := Match(records, bank, dec("0.01"), 3)

	require.Len(t, res.MatchedPairs, 1)
	assert.Equal(t, "near", res.MatchedPairs[0].BankID)
	require.Len(t, res.UnmatchedBankEntries, 1)
	assert.Equal(t, "far", res.UnmatchedBankEntries[0].ID)
}

func TestMatch_TieKeepsFirstEligible(t *testing.T) {
	records := []models.Transaction{sale("r1", "250", models.VatTypeVatable)}
	bank := []models.BankEntry{
		bankLine("first", "250", "", models.EntryCredit),
		bankLine("second", "250", "", models.EntryCredit),
	}

	res := Match(records, bank, dec("0.01"), 3)

	require.Len(t, res.MatchedPairs, 1)
	assert.Equal(t, "first", res.MatchedPairs[0].BankID)
}

func TestMatch_GreedyConsumesBankEntries(t *testing.T) {
	records := []models.Transaction{
		sale("r1", "100", models.VatTypeVatable),
		sale("r2", "100", models.VatTypeVatable),
		sale("r3", "100", models.VatTypeVatable),
	}
	bank := []models.BankEntry{
		bankLine("b1", "100", "", models.EntryCredit),
		bankLine("b2", "100", "", models.EntryCredit),
	}

	res := Match(records, bank, dec("0.01"), 3)

	require.Len(t, res.MatchedPairs, 2)
	seen := map[string]bool{}
	for _, p := range res.MatchedPairs {
		assert.False(t, seen[p.BankID], "bank entry %s paired twice", p.BankID)
		seen[p.BankID] = true
	}
	require.Len(t, res.UnmatchedRecords, 1)
	assert.Equal(t, "r3", res.UnmatchedRecords[0].ID)
	assert.Equal(t, 0.8, res.MatchRate)
}

func TestMatch_EmptyInputs(t *testing.T) {
	res := Match(nil, nil, dec("0.01"), 3)

	assert.Equal(t, 0.0, res.MatchRate)
	assert.NotNil(t, res.MatchedPairs)
	assert.NotNil(t, res.UnmatchedRecords)
	assert.NotNil(t, res.UnmatchedBankEntries)
}

func TestMatch_IsStableAcrossCalls(t *testing.T) {
	records := []models.Transaction{
		dated(sale("r1", "100", models.VatTypeVatable), "2026-01-01"),
		dated(sale("r2", "200", models.VatTypeVatable), "2026-01-02"),
		dated(sale("r3", "300", models.VatTypeVatable), "2026-01-03"),
	}
	bank := []models.BankEntry{
		bankLine("b3", "300", "2026-01-04", models.EntryCredit),
		bankLine("b1", "100", "2026-01-01", models.EntryCredit),
		bankLine("b2", "200.005", "2026-01-02", models.EntryCredit),
	}

	pairing := func() map[string]string {
		out := map[string]string{}
		for _, p := range Match(records, bank, dec("0.01"), 3).MatchedPairs {
			out[p.RecordID] = p.BankID
		}
		return out
	}

	first := pairing()
	assert.Equal(t, map[string]string{"r1": "b1", "r2": "b2", "r3": "b3"}, first)
	assert.Equal(t, first, pairing())
}

func TestMatchRate(t *testing.T) {
	assert.Equal(t, 0.0, MatchRate(0, 0, 0))
	assert.Equal(t, 0.6667, MatchRate(1, 1, 2))
	assert.Equal(t, 1.0, MatchRate(3, 3, 3))
}

func TestDaysBetween(t *testing.T) {
	d, ok := daysBetween(day("2026-02-27"), day("2026-03-02"))
	assert.True(t, ok)
	assert.Equal(t, 3, d)

	_, ok = daysBetween(nil, day("2026-03-02"))
	assert.False(t, ok)
}
