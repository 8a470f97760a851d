package robinhood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/gainscan/backend/src/models"
)

func TestExtract_ScheduleDSummary(t *testing.T) {
	text := "Robinhood Securities LLC\n" +
		"Consolidated Form 1099\n" +
		"Grand total 1,000.00 800.00 0.00 0.00 200.00\n"

	txs, totals := NewExtractor().Extract(text)

	require.Len(t, txs, 1)
	assert.Equal(t, models.Transaction{
		CUSIP:        "",
		Description:  "Short-term Capital Gains Summary (multiple transactions)",
		DateAcquired: models.DateVarious,
		DateSold:     models.DateVarious,
		Quantity:     1,
		Proceeds:     1000,
		CostBasis:    800,
		WashSaleLoss: 0,
		NetGainLoss:  200,
		IsLongTerm:   false,
		FormType:     models.FormTypeShortTermCovered,
	}, txs[0])

	require.NotNil(t, totals)
	assert.Equal(t, models.SummaryTotals{
		TotalProceeds:        1000,
		TotalCostBasis:       800,
		TotalNetGainLoss:     200,
		TotalWashSaleLoss:    0,
		ShortTermProceeds:    1000,
		ShortTermCostBasis:   800,
		ShortTermNetGainLoss: 200,
	}, *totals)
}

func TestExtract_SummaryVariants(t *testing.T) {
	tests := []struct {
		name             string
		text             string
		expectedProceeds float64
		expectedNet      float64
	}{
		{
			name:             "label without space",
			text:             "Grandtotal 500.00 300.00 0.00 0.00 200.00",
			expectedProceeds: 500,
			expectedNet:      200,
		},
		{
			name:             "short term label",
			text:             "Total Short-term 1,500.00 1,200.00 0.00 50.00 300.00",
			expectedProceeds: 1500,
			expectedNet:      300,
		},
		{
			name:             "uppercase label",
			text:             "GRAND TOTAL 100.00 50.00 0.00 0.00 50.00",
			expectedProceeds: 100,
			expectedNet:      50,
		},
		{
			name:             "row folded across lines",
			text:             "Grand total\n1,000.00 800.00\n0.00 0.00 200.00",
			expectedProceeds: 1000,
			expectedNet:      200,
		},
		{
			name:             "negative net",
			text:             "Grand total 500.00 700.00 0.00 0.00 -200.00",
			expectedProceeds: 500,
			expectedNet:      -200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, totals := NewExtractor().Extract(tt.text)

			require.Len(t, txs, 1)
			require.NotNil(t, totals)
			assert.Equal(t, tt.expectedProceeds, totals.TotalProceeds)
			assert.Equal(t, tt.expectedNet, totals.TotalNetGainLoss)
			assert.Equal(t, tt.expectedNet, txs[0].NetGainLoss)
		})
	}
}

func TestExtract_SectionScan(t *testing.T) {
	text := "SHORT-TERM TRANSACTIONS FOR COVERED TAX LOTS\n" +
		"037833100 APPLE INC\n" +
		"01/15/2023 06/20/2023 100 5,000.00 4,000.00\n"

	txs, totals := NewExtractor().Extract(text)

	require.Len(t, txs, 1)
	assert.Nil(t, totals, "itemized rows carry no document totals")

	tx := txs[0]
	assert.Equal(t, "037833100", tx.CUSIP)
	assert.Equal(t, "APPLE INC", tx.Description)
	assert.Equal(t, "01/15/2023", tx.DateAcquired)
	assert.Equal(t, "06/20/2023", tx.DateSold)
	assert.Equal(t, 5000.0, tx.Proceeds)
	assert.Equal(t, 4000.0, tx.CostBasis)
	assert.Equal(t, 1000.0, tx.NetGainLoss)
	assert.False(t, tx.IsLongTerm)
	assert.Equal(t, models.FormTypeShortTermCovered, tx.FormType)
}

func TestExtract_SectionScanLongTerm(t *testing.T) {
	text := "LONG-TERM TRANSACTIONS FOR COVERED TAX LOTS\n" +
		"38259P508 ALPHABET INC CLASS C\n" +
		"01/10/2020 03/15/2023 10 12,500.50 8,000.25\n"

	txs, _ := NewExtractor().Extract(text)

	require.Len(t, txs, 1)
	assert.True(t, txs[0].IsLongTerm)
	assert.Equal(t, models.FormTypeLongTermCovered, txs[0].FormType)
	assert.Equal(t, 12500.50, txs[0].Proceeds)
	assert.Equal(t, 8000.25, txs[0].CostBasis)
	assert.Equal(t, 4500.25, txs[0].NetGainLoss)
}

// The summary strategy sits first; when both shapes are present the itemized
// section must not contribute rows.
func TestExtract_SummaryWinsOverSectionScan(t *testing.T) {
	text := "Grand total 1,000.00 800.00 0.00 0.00 200.00\n" +
		"SHORT-TERM TRANSACTIONS FOR COVERED TAX LOTS\n" +
		"037833100 APPLE INC\n" +
		"01/15/2023 06/20/2023 100 5,000.00 4,000.00\n"

	txs, totals := NewExtractor().Extract(text)

	require.Len(t, txs, 1)
	require.NotNil(t, totals)
	assert.Equal(t, "Short-term Capital Gains Summary (multiple transactions)", txs[0].Description)
	assert.Equal(t, 200.0, totals.TotalNetGainLoss)
}

func TestExtract_NoRecognizableShape(t *testing.T) {
	txs, totals := NewExtractor().Extract("Robinhood Securities LLC\nNothing resembling a table here.")

	assert.Nil(t, txs)
	assert.Nil(t, totals)
}

// A row identifier with too little context around it is dropped, not
// half-filled.
func TestExtract_IncompleteRowIsSkipped(t *testing.T) {
	text := "FORM 1099-B\n" +
		"AAPL COMMON STOCK\n" +
		"sold 06/20/2023 for 150.00\n"

	txs, totals := NewExtractor().Extract(text)

	assert.Nil(t, txs)
	assert.Nil(t, totals)
}
