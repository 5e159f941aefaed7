// backend/src/parsers/parsers.go
package parsers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/parsers/bankcsv"
	"github.com/username/vatrecon/backend/src/parsers/ledgercsv"
)

// Upload sources accepted by GetParser.
const (
	SourceSales     = "sales"
	SourcePurchases = "purchases"
	SourceBank      = "bank"
)

// ErrUnknownSource is returned by GetParser for an unsupported source.
var ErrUnknownSource = errors.New("unknown upload source")

// Parser turns an uploaded file into classified transactions.
type Parser interface {
	Parse(file io.Reader) ([]models.Transaction, error)
}

// GetParser returns the parser for an upload source.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceSales:
		return ledgercsv.NewSalesParser(), nil
	case SourcePurchases:
		return ledgercsv.NewPurchasesParser(), nil
	case SourceBank:
		return bankcsv.NewParser(), nil
	}
	return nil, fmt.Errorf("%w: %q (expected sales, purchases or bank)", ErrUnknownSource, source)
}

// SourceTypeOf maps an upload source to the source_type its rows carry.
func SourceTypeOf(source string) (models.SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceSales:
		return models.SourceSalesRecord, nil
	case SourcePurchases:
		return models.SourcePurchaseRecord, nil
	case SourceBank:
		return models.SourceBankStatement, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, source)
}
