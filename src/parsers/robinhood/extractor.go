package robinhood

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/models"
	"github.com/username/gainscan/backend/src/utils"
)

// Robinhood consolidated 1099s close with a Schedule D style summary table:
// a label followed by five monetary columns (proceeds, cost basis, market
// discount, wash sale loss, net gain/loss). The label text varies across tax
// years and extraction quality, so equivalent variants are tried in order.
// Matching runs over the whole text with . spanning newlines because the
// table row is frequently folded across wrapped lines.
const summaryAmounts = `\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,\-]+\.\d{2})`

var summaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)Grand total` + summaryAmounts),
	regexp.MustCompile(`(?is)Grandtotal` + summaryAmounts),
	regexp.MustCompile(`(?is)Total Short-term` + summaryAmounts),
}

// Line-scan patterns for itemized 8949-style sections.
var (
	sectionKeywords = []string{
		"FORM 1099-B", "PROCEEDS FROM BROKER", "REPORTING GAIN",
		"SHORT-TERM TRANSACTIONS", "LONG-TERM TRANSACTIONS",
		"STOCKS, BONDS, ETC", "SECURITIES TRANSACTIONS",
	}

	cusipLinePattern   = regexp.MustCompile(`^([A-Z0-9]{9})\s+(.+)`)
	tickerLinePattern  = regexp.MustCompile(`^([A-Z]{1,5})\s+(.+)`)
	companyLinePattern = regexp.MustCompile(`^([A-Z][a-zA-Z\s&.]+(?:Inc|Corp|Co|LLC|Ltd))\s*(.+)`)

	stitchDatePattern   = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`)
	stitchAmountPattern = regexp.MustCompile(`\$?([\d,]+\.?\d*)`)
)

// stitchWindow is how many lines of context belong to one wrapped row.
const stitchWindow = 5

// Extractor pulls transactions from Robinhood consolidated 1099 text.
type Extractor struct{}

// NewExtractor creates a new instance of the Robinhood Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs the strategies in priority order and stops at the first
// non-empty yield; later strategies never run for that document. The summary
// block carries the document's own authoritative totals, so it sits first.
func (e *Extractor) Extract(text string) ([]models.Transaction, *models.SummaryTotals) {
	strategies := []struct {
		name string
		run  func(string) ([]models.Transaction, *models.SummaryTotals)
	}{
		{"schedule-d-summary", e.extractSummaryBlock},
		{"section-scan", e.scanTransactionSections},
	}
	for _, s := range strategies {
		txs, totals := s.run(text)
		if len(txs) > 0 {
			logger.L.Debug("Robinhood Extractor: strategy yielded transactions", "strategy", s.name, "count", len(txs))
			return txs, totals
		}
	}
	return nil, nil
}

// extractSummaryBlock synthesizes a single transaction for the whole document
// from the Schedule D summary row, with the document's own totals attached.
func (e *Extractor) extractSummaryBlock(text string) ([]models.Transaction, *models.SummaryTotals) {
	for i, pattern := range summaryPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		proceeds := utils.NormalizeCurrency(match[1])
		costBasis := utils.NormalizeCurrency(match[2])
		// match[3] is market discount, which has no slot on the model.
		washSale := utils.NormalizeCurrency(match[4])
		netGain := utils.NormalizeCurrency(match[5])

		logger.L.Debug("Robinhood Extractor: Schedule D summary matched", "patternIndex", i,
			"proceeds", proceeds, "costBasis", costBasis, "washSale", washSale, "netGain", netGain)

		tx := models.Transaction{
			CUSIP:        "",
			Description:  "Short-term Capital Gains Summary (multiple transactions)",
			DateAcquired: models.DateVarious,
			DateSold:     models.DateVarious,
			Quantity:     1,
			Proceeds:     proceeds,
			CostBasis:    costBasis,
			WashSaleLoss: washSale,
			// The document's own figure. A consolidated summary nets out
			// adjustments that proceeds minus cost cannot reproduce.
			NetGainLoss: netGain,
			IsLongTerm:  false,
			FormType:    models.FormTypeShortTermCovered,
		}
		totals := &models.SummaryTotals{
			TotalProceeds:        proceeds,
			TotalCostBasis:       costBasis,
			TotalNetGainLoss:     netGain,
			TotalWashSaleLoss:    washSale,
			ShortTermProceeds:    proceeds,
			ShortTermCostBasis:   costBasis,
			ShortTermNetGainLoss: netGain,
		}
		return []models.Transaction{tx}, totals
	}
	return nil, nil
}

// scanTransactionSections walks the text line by line. Section keywords arm
// the scanner; once armed, a line opening with a 9-character CUSIP, a short
// ticker, or a company name starts a row, and the row's dates and amounts
// are stitched from the following lines.
func (e *Extractor) scanTransactionSections(text string) ([]models.Transaction, *models.SummaryTotals) {
	lines := strings.Split(text, "\n")
	var txs []models.Transaction
	inSection := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if isSectionHeader(line) {
			inSection = true
			continue
		}
		if !inSection || line == "" {
			continue
		}

		if m := cusipLinePattern.FindStringSubmatch(line); m != nil {
			if tx, ok := stitchTransaction(lines, i, m[1], m[2]); ok {
				txs = append(txs, tx)
				continue
			}
		}
		if m := tickerLinePattern.FindStringSubmatch(line); m != nil {
			if tx, ok := stitchTransaction(lines, i, "", m[1]+" "+m[2]); ok {
				txs = append(txs, tx)
				continue
			}
		}
		if m := companyLinePattern.FindStringSubmatch(line); m != nil {
			if tx, ok := stitchTransaction(lines, i, "", m[1]+" "+m[2]); ok {
				txs = append(txs, tx)
			}
		}
	}
	return txs, nil
}

func isSectionHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, keyword := range sectionKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// stitchTransaction reassembles one row that the page-text extraction wrapped
// onto several lines: starting at the identifier line, collect dates and
// plausible amounts over a small window, and close the row once there are at
// least two of each. The larger figure is conventionally the proceeds.
func stitchTransaction(lines []string, start int, cusip, description string) (models.Transaction, bool) {
	var dates []string
	var amounts []float64

	end := utils.MinInt(start+stitchWindow, len(lines))
	for i := start; i < end; i++ {
		line := strings.TrimSpace(lines[i])
		for _, m := range stitchDatePattern.FindAllStringSubmatch(line, -1) {
			dates = append(dates, m[1])
		}
		for _, m := range stitchAmountPattern.FindAllStringSubmatch(line, -1) {
			candidate := m[1]
			// Bare integers are quantities, page numbers, zip codes.
			if !strings.ContainsAny(candidate, ".,") {
				continue
			}
			value, err := strconv.ParseFloat(strings.ReplaceAll(candidate, ",", ""), 64)
			if err != nil || value <= 0 {
				continue
			}
			amounts = append(amounts, value)
		}
	}

	if len(dates) < 2 || len(amounts) < 2 {
		return models.Transaction{}, false
	}

	dateAcquired := utils.NormalizeDate(dates[0])
	dateSold := utils.NormalizeDate(dates[1])
	proceeds, costBasis := amounts[0], amounts[0]
	for _, a := range amounts {
		if a > proceeds {
			proceeds = a
		}
		if a < costBasis {
			costBasis = a
		}
	}

	longTerm := utils.IsLongTermHolding(dateAcquired, dateSold)
	formType := models.FormTypeShortTermCovered
	if longTerm {
		formType = models.FormTypeLongTermCovered
	}

	return models.Transaction{
		CUSIP:        cusip,
		Description:  strings.ToUpper(strings.TrimSpace(description)),
		DateAcquired: dateAcquired,
		DateSold:     dateSold,
		Quantity:     1,
		Proceeds:     proceeds,
		CostBasis:    costBasis,
		WashSaleLoss: 0,
		NetGainLoss:  proceeds - costBasis,
		IsLongTerm:   longTerm,
		FormType:     formType,
	}, true
}
