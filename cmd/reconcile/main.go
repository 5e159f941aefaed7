// Command reconcile runs the reconciliation engine over local CSV files and prints the
// result as JSON. It does not touch the database.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/vatrecon/backend/src/logger"
	"github.com/username/vatrecon/backend/src/models"
	"github.com/username/vatrecon/backend/src/parsers"
	"github.com/username/vatrecon/backend/src/processors"
	"github.com/username/vatrecon/backend/src/security/validation"
)

type output struct {
	Result    models.ReconciliationResult `json:"result"`
	Anomalies []models.DetectedAnomaly    `json:"anomalies,omitempty"`
}

type options struct {
	salesFile     string
	purchasesFile string
	bankFile      string
	declaredFile  string
	period        string
	amountTol     string
	dateTol       int
	withAnomalies bool
	logLevel      string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.salesFile, "sales", "", "Path to the sales records CSV")
	fs.StringVar(&opts.purchasesFile, "purchases", "", "Path to the purchase records CSV")
	fs.StringVar(&opts.bankFile, "bank", "", "Path to the bank statement CSV (optional)")
	fs.StringVar(&opts.declaredFile, "declared", "", "Path to a declared report JSON file (optional)")
	fs.StringVar(&opts.period, "period", "", "Filing period: YYYY, YYYY-MM or YYYY-Qn (required)")
	fs.StringVar(&opts.amountTol, "amount-tol", "0.01", "Absolute amount tolerance for matching")
	fs.IntVar(&opts.dateTol, "date-tol", 3, "Date tolerance for matching, in days")
	fs.BoolVar(&opts.withAnomalies, "anomalies", false, "Also run the anomaly detectors")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level for stderr diagnostics")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.salesFile == "" && opts.purchasesFile == "" {
		return opts, errors.New("at least one of -sales or -purchases is required")
	}
	if err := validation.ValidatePeriod(opts.period); err != nil {
		return opts, err
	}
	opts.period = strings.TrimSpace(opts.period)
	if opts.dateTol < 0 {
		return opts, errors.New("-date-tol must not be negative")
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger.InitLoggerTo(stderr, opts.logLevel)

	amountTol, err := decimal.NewFromString(opts.amountTol)
	if err != nil || amountTol.IsNegative() {
		return fmt.Errorf("invalid -amount-tol %q", opts.amountTol)
	}

	sales, err := loadCSV(parsers.SourceSales, opts.salesFile)
	if err != nil {
		return err
	}
	purchases, err := loadCSV(parsers.SourcePurchases, opts.purchasesFile)
	if err != nil {
		return err
	}
	bankTxs, err := loadCSV(parsers.SourceBank, opts.bankFile)
	if err != nil {
		return err
	}
	declared, err := loadDeclared(opts.declaredFile)
	if err != nil {
		return err
	}

	bank := models.BankEntries(bankTxs)
	result := processors.Reconcile(sales, purchases, bank, declared, opts.period, amountTol, opts.dateTol)

	out := output{}
	if opts.withAnomalies {
		out.Anomalies = processors.DetectAll(
			processors.Snapshot(sales, purchases, bank),
			processors.DefaultDetectors(amountTol, opts.dateTol),
		)
		processors.SortAnomalies(out.Anomalies)
		result.AnomalyCount = len(out.Anomalies)
	}
	out.Result = result.Rounded()

	logger.L.Info("Reconciliation finished",
		"records", out.Result.MatchStats.TotalRecords,
		"matched", out.Result.MatchStats.MatchedCount,
		"anomalies", out.Result.AnomalyCount)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func loadCSV(source, path string) ([]models.Transaction, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", source, err)
	}
	defer f.Close()

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, err
	}
	txs, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return txs, nil
}

func loadDeclared(path string) (*models.DeclaredReport, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declared report: %w", err)
	}
	var report models.DeclaredReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode declared report %s: %w", path, err)
	}
	if err := validation.ValidateDeclaredValues(report.CalculatedData, processors.IsReportLineKey); err != nil {
		return nil, err
	}
	return &report, nil
}
