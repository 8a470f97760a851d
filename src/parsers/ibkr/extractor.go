package ibkr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/models"
	"github.com/username/gainscan/backend/src/utils"
)

// Every row shape ends in the same four monetary columns: proceeds, cost
// basis, market discount, wash sale loss.
const amountColumns = `([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,\-]+\.\d{2})`

// rowPattern couples a row-shape regex with its field converter.
type rowPattern struct {
	name    string
	re      *regexp.Regexp
	convert func(match []string, seq int) (models.Transaction, error)
}

// rowPatterns sit in decreasing order of specificity. Extraction scans the
// whole document with each in turn and commits to the first that yields at
// least one row; rows from different patterns are never mixed.
var rowPatterns = []rowPattern{
	{
		// Company, 9+ digit CUSIP, ticker, quantity, covered/non-covered
		// code, action, sale date, acquisition date (or a word such as
		// "Various"), then the monetary columns. The sale date comes first
		// in this layout.
		name: "full-row",
		re: regexp.MustCompile(`([A-Z\s&\.]+?)\s+(\d{9,})\s+([A-Z]+)\s+(\d+)\s+([A-Z]{1,2})\s+(SALE|PURCHASE)\s+` +
			`(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}/\d{1,2}/\d{4}|\w+)\s+` + amountColumns),
		convert: convertFullRow,
	},
	{
		name:    "company-amounts",
		re:      regexp.MustCompile(`([A-Z][A-Z\s&\.]*?)\s+` + amountColumns),
		convert: convertCompanyRow,
	},
	{
		name:    "bare-amounts",
		re:      regexp.MustCompile(amountColumns),
		convert: convertBareRow,
	},
}

// Extractor pulls transactions from Interactive Brokers 1099-B text, which
// itemizes one trade per printed row.
type Extractor struct{}

// NewExtractor creates a new instance of the IBKR Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract tries each row pattern across the whole document, most specific
// first, and returns the rows of the first pattern that matched anything.
// Itemized documents carry no authoritative totals, so the summary override
// is always nil and totals are recomputed downstream.
func (e *Extractor) Extract(text string) ([]models.Transaction, *models.SummaryTotals) {
	lines := strings.Split(text, "\n")
	for _, pattern := range rowPatterns {
		txs := scanWithPattern(lines, pattern)
		if len(txs) > 0 {
			logger.L.Debug("IBKR Extractor: row pattern decided the document", "pattern", pattern.name, "count", len(txs))
			return txs, nil
		}
	}
	return nil, nil
}

func scanWithPattern(lines []string, p rowPattern) []models.Transaction {
	var txs []models.Transaction
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		match := p.re.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		tx, err := p.convert(match, len(txs))
		if err != nil {
			// One bad field discards the row, never the document.
			logger.L.Warn("IBKR Extractor: skipping row with unparseable field", "pattern", p.name, "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

func convertFullRow(match []string, seq int) (models.Transaction, error) {
	quantity, err := strconv.Atoi(match[4])
	if err != nil {
		return models.Transaction{}, fmt.Errorf("quantity %q is not numeric", match[4])
	}
	proceeds, costBasis, washSale, err := parseAmountColumns(match[9:13])
	if err != nil {
		return models.Transaction{}, err
	}

	dateSold := utils.NormalizeDate(match[7])
	dateAcquired := utils.NormalizeDate(match[8])
	longTerm := utils.IsLongTermHolding(dateAcquired, dateSold)

	return models.Transaction{
		CUSIP:        match[2],
		Description:  fmt.Sprintf("%s (%s)", strings.TrimSpace(match[1]), match[3]),
		DateAcquired: dateAcquired,
		DateSold:     dateSold,
		Quantity:     float64(quantity),
		Proceeds:     proceeds,
		CostBasis:    costBasis,
		WashSaleLoss: washSale,
		NetGainLoss:  proceeds - costBasis,
		IsLongTerm:   longTerm,
		FormType:     match[5],
	}, nil
}

func convertCompanyRow(match []string, seq int) (models.Transaction, error) {
	proceeds, costBasis, washSale, err := parseAmountColumns(match[2:6])
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		CUSIP:        "Unknown",
		Description:  strings.TrimSpace(match[1]),
		DateAcquired: models.DateVarious,
		DateSold:     models.DateVarious,
		Quantity:     1,
		Proceeds:     proceeds,
		CostBasis:    costBasis,
		WashSaleLoss: washSale,
		NetGainLoss:  proceeds - costBasis,
		IsLongTerm:   false,
		FormType:     models.FormTypeShortTermCovered,
	}, nil
}

func convertBareRow(match []string, seq int) (models.Transaction, error) {
	proceeds, costBasis, washSale, err := parseAmountColumns(match[1:5])
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		CUSIP:        "Unknown",
		Description:  fmt.Sprintf("Transaction %d", seq+1),
		DateAcquired: models.DateVarious,
		DateSold:     models.DateVarious,
		Quantity:     1,
		Proceeds:     proceeds,
		CostBasis:    costBasis,
		WashSaleLoss: washSale,
		NetGainLoss:  proceeds - costBasis,
		IsLongTerm:   false,
		FormType:     models.FormTypeShortTermCovered,
	}, nil
}

// parseAmountColumns parses the four monetary captures of a row. Market
// discount (the third column) has no slot on the model but must still be
// numeric for the row to count.
func parseAmountColumns(cols []string) (proceeds, costBasis, washSale float64, err error) {
	proceeds, err = utils.ParseAmount(cols[0])
	if err != nil {
		return 0, 0, 0, err
	}
	costBasis, err = utils.ParseAmount(cols[1])
	if err != nil {
		return 0, 0, 0, err
	}
	if _, err = utils.ParseAmount(cols[2]); err != nil {
		return 0, 0, 0, err
	}
	washSale, err = utils.ParseAmount(cols[3])
	if err != nil {
		return 0, 0, 0, err
	}
	return proceeds, costBasis, washSale, nil
}
