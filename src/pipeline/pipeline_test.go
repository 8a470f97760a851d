package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/gainscan/backend/src/models"
)

func TestRun_RobinhoodSummaryDocument(t *testing.T) {
	text := "Robinhood Securities LLC\n" +
		"Account Number: 123456789\n" +
		"RECIPIENT: JOHN SMITH\n" +
		"Grand total 1,000.00 800.00 0.00 0.00 200.00\n"

	result := New(nil).Run(text)

	assert.True(t, result.Success)
	assert.Equal(t, models.BrokerageRobinhood, result.Brokerage)
	assert.Equal(t, "robinhood-1099B", result.DocumentID)
	assert.Equal(t, "123456789", result.AccountNumber)
	assert.Equal(t, "JOHN SMITH", result.TaxpayerName)
	assert.Empty(t, result.Error)

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 1000.0, result.TotalProceeds)
	assert.Equal(t, 800.0, result.TotalCostBasis)
	assert.Equal(t, 200.0, result.TotalNetGainLoss)
}

// The summary row's own net figure is carried verbatim even when it differs
// from proceeds minus cost basis, because the document nets out adjustments
// the text does not itemize.
func TestRun_SummaryNetCarriedVerbatim(t *testing.T) {
	text := "Robinhood Securities LLC\n" +
		"Grand total 1,000.00 850.00 0.00 50.00 180.00\n"

	result := New(nil).Run(text)

	require.True(t, result.Success)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 180.0, result.Transactions[0].NetGainLoss)
	assert.Equal(t, 180.0, result.TotalNetGainLoss)
	assert.Equal(t, 50.0, result.TotalWashSaleLoss)
}

func TestRun_ItemizedDocumentRecomputesTotals(t *testing.T) {
	text := "Interactive Brokers LLC\n" +
		"APPLE INC 037833100 AAPL 100 A SALE 06/20/2023 01/15/2023 5,000.00 4,000.00 0.00 0.00\n" +
		"MICROSOFT CORP 594918104 MSFT 25 D SALE 06/20/2023 01/10/2020 9,000.00 4,500.00 0.00 0.00\n"

	result := New(nil).Run(text)

	require.True(t, result.Success)
	assert.Equal(t, models.BrokerageInteractiveBrokers, result.Brokerage)
	assert.Equal(t, "interactive_brokers-1099B", result.DocumentID)
	require.Len(t, result.Transactions, 2)

	assert.Equal(t, 14000.0, result.TotalProceeds)
	assert.Equal(t, 8500.0, result.TotalCostBasis)
	assert.Equal(t, 5500.0, result.TotalNetGainLoss)
	assert.Equal(t, 5000.0, result.ShortTermProceeds)
	assert.Equal(t, 1000.0, result.ShortTermNetGainLoss)
	assert.Equal(t, 9000.0, result.LongTermProceeds)
	assert.Equal(t, 4500.0, result.LongTermNetGainLoss)
}

func TestRun_UnknownBrokerage(t *testing.T) {
	text := "Vanguard Group Brokerage Services\nAccount Number: 999\n"

	result := New(nil).Run(text)

	assert.False(t, result.Success)
	assert.Equal(t, models.BrokerageUnknown, result.Brokerage)
	assert.Equal(t, "unknown-1099B", result.DocumentID)
	assert.Equal(t, "unsupported brokerage: unknown", result.Error)

	// Failed runs are still well-formed: metadata is scanned and the
	// transaction list is empty, not absent.
	assert.Equal(t, "999", result.AccountNumber)
	assert.Equal(t, "Unknown", result.TaxpayerName)
	assert.NotNil(t, result.Transactions)
	assert.Empty(t, result.Transactions)
	assert.Equal(t, models.SummaryTotals{}, result.SummaryTotals)
}

func TestRun_IdentifiedButUnsupported(t *testing.T) {
	result := New(nil).Run("E*TRADE Securities LLC\nForm 1099-B\n")

	assert.False(t, result.Success)
	assert.Equal(t, models.BrokerageETrade, result.Brokerage)
	assert.Equal(t, "etrade-1099B", result.DocumentID)
	assert.Equal(t, "unsupported brokerage: etrade", result.Error)
}

func TestRun_NoTransactionsFound(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedError string
	}{
		{
			name:          "robinhood without any table shape",
			text:          "Robinhood Securities LLC\nNothing tabular in this dump.\n",
			expectedError: "no transactions found for brokerage: robinhood",
		},
		{
			name:          "fidelity has no row shapes yet",
			text:          "Fidelity Investments\nForm 1099-B\n",
			expectedError: "no transactions found for brokerage: fidelity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(nil).Run(tt.text)

			assert.False(t, result.Success)
			assert.Equal(t, tt.expectedError, result.Error)
			assert.Empty(t, result.Transactions)
		})
	}
}

func TestRun_EmptyText(t *testing.T) {
	result := New(nil).Run("")

	assert.False(t, result.Success)
	assert.Equal(t, models.BrokerageUnknown, result.Brokerage)
	assert.Equal(t, "Unknown", result.AccountNumber)
	assert.Equal(t, "Unknown", result.TaxpayerName)
}
