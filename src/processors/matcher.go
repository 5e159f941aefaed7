// backend/src/processors/matcher.go
package processors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/money"
)

var (
	// relativeAmountTolerance widens the absolute tolerance for large amounts (0.1%).
	relativeAmountTolerance = decimal.RequireFromString("0.001")
	// dayWeight makes the date a tie-breaker: one day costs as much as one cent.
	dayWeight = decimal.RequireFromString("0.01")
)

// GreedyPair is one pairing produced by GreedyMatch, by index into its inputs.
type GreedyPair struct {
	LeftIndex    int
	RightIndex   int
	DateDiffDays *int
}

// GreedyResult holds the pairs and the indices left unpaired on each side, in input order.
type GreedyResult struct {
	Pairs          []GreedyPair
	UnmatchedLeft  []int
	UnmatchedRight []int
}

// GreedyMatch pairs each left row with the best still-unconsumed right row.
//
// Left rows are visited in order. A right row is eligible when the amount difference is
// within max(amountTolerance, |left.amount|*0.1%) and, if both rows are dated, the dates are
// at most dateToleranceDays apart. The eligible row with the lowest
// amount_diff + days*0.01 wins; on equal scores the earliest one in input order is kept.
func GreedyMatch(left, right []models.Transaction, amountTolerance decimal.Decimal, dateToleranceDays int) GreedyResult {
	res := GreedyResult{
		Pairs:          make([]GreedyPair, 0),
		UnmatchedLeft:  make([]int, 0),
		UnmatchedRight: make([]int, 0),
	}
	consumed := make([]bool, len(right))

	for li, l := range left {
		limit := money.MaxAbs(amountTolerance, l.Amount.Mul(relativeAmountTolerance))

		best := -1
		var bestScore decimal.Decimal
		var bestDays *int

		for ri, r := range right {
			if consumed[ri] {
				continue
			}

			diff := l.Amount.Sub(r.Amount).Abs()
			if diff.GreaterThan(limit) {
				continue
			}

			days, dated := daysBetween(l.Date, r.Date)
			if dated && days > dateToleranceDays {
				continue
			}

			score := diff.Add(decimal.NewFromInt(int64(days)).Mul(dayWeight))
			if best == -1 || score.LessThan(bestScore) {
				best = ri
				bestScore = score
				if dated {
					d := days
					bestDays = &d
				} else {
					bestDays = nil
				}
			}
		}

		if best == -1 {
			res.UnmatchedLeft = append(res.UnmatchedLeft, li)
			continue
		}
		consumed[best] = true
		res.Pairs = append(res.Pairs, GreedyPair{LeftIndex: li, RightIndex: best, DateDiffDays: bestDays})
	}

	for ri, used := range consumed {
		if !used {
			res.UnmatchedRight = append(res.UnmatchedRight, ri)
		}
	}
	return res
}

// Match pairs accounting records with bank entries 1:1 and reports what is left on each side.
func Match(records []models.Transaction, bankEntries []models.BankEntry, amountTolerance decimal.Decimal, dateToleranceDays int) models.MatchResult {
	g := GreedyMatch(records, models.Transactions(bankEntries), amountTolerance, dateToleranceDays)

	result := models.MatchResult{
		MatchedPairs:         make([]models.MatchedPair, 0, len(g.Pairs)),
		UnmatchedRecords:     make([]models.Transaction, 0, len(g.UnmatchedLeft)),
		UnmatchedBankEntries: make([]models.BankEntry, 0, len(g.UnmatchedRight)),
	}

	for _, p := range g.Pairs {
		rec, bank := records[p.LeftIndex], bankEntries[p.RightIndex]
		result.MatchedPairs = append(result.MatchedPairs, models.MatchedPair{
			MatchGroupID: uuid.NewString(),
			RecordID:     rec.ID,
			BankID:       bank.ID,
			RecordAmount: rec.Amount,
			BankAmount:   bank.Amount,
			DateDiffDays: p.DateDiffDays,
		})
	}
	for _, i := range g.UnmatchedLeft {
		result.UnmatchedRecords = append(result.UnmatchedRecords, records[i])
	}
	for _, i := range g.UnmatchedRight {
		result.UnmatchedBankEntries = append(result.UnmatchedBankEntries, bankEntries[i])
	}

	result.MatchRate = MatchRate(len(result.MatchedPairs), len(records), len(bankEntries))
	return result
}

// MatchRate is 2*matched / (records + bank), rounded to 4 decimals. Zero when both sides are empty.
func MatchRate(matched, records, bankEntries int) float64 {
	total := records + bankEntries
	if total == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(matched * 2)).DivRound(decimal.NewFromInt(int64(total)), 4)
	return rate.InexactFloat64()
}

// daysBetween returns the absolute calendar-day distance. ok is false when either date is missing.
func daysBetween(a, b *time.Time) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(da.Sub(db).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days, true
}
