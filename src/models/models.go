package models

// Brokerage tags the institution a 1099-B document came from. The set is
// closed: identification only ever yields one of these values.
type Brokerage string

const (
	BrokerageRobinhood          Brokerage = "robinhood"
	BrokerageInteractiveBrokers Brokerage = "interactive_brokers"
	BrokerageSchwabTD           Brokerage = "schwab_td"
	BrokerageFidelity           Brokerage = "fidelity"
	BrokerageETrade             Brokerage = "etrade"
	BrokerageUnknown            Brokerage = "unknown"
)

// 1099-B box codes. A/B are short-term covered/non-covered, D/E long-term.
const (
	FormTypeShortTermCovered    = "A"
	FormTypeShortTermNoncovered = "B"
	FormTypeLongTermCovered     = "D"
	FormTypeLongTermNoncovered  = "E"
)

// DateVarious is the placeholder brokers print when a lot was assembled from
// multiple acquisition dates. It passes through date normalization unchanged.
const DateVarious = "Various"

// Transaction is one reportable sale row extracted from a 1099-B document.
// Dates are MM/DD/YYYY strings (or DateVarious); monetary fields are USD.
type Transaction struct {
	CUSIP        string  `json:"cusip"`
	Description  string  `json:"description"`
	DateAcquired string  `json:"dateAcquired"`
	DateSold     string  `json:"dateSold"`
	Quantity     float64 `json:"quantity"`
	Proceeds     float64 `json:"proceeds"`
	CostBasis    float64 `json:"costBasis"`
	WashSaleLoss float64 `json:"washSaleLoss"`
	NetGainLoss  float64 `json:"netGainLoss"`
	IsLongTerm   bool    `json:"isLongTerm"`
	FormType     string  `json:"formType"`
}

// SummaryTotals aggregates a set of transactions, split by holding period.
// Summary-style documents supply these figures themselves; itemized documents
// get them recomputed from the transaction list.
type SummaryTotals struct {
	TotalProceeds     float64 `json:"totalProceeds"`
	TotalCostBasis    float64 `json:"totalCostBasis"`
	TotalNetGainLoss  float64 `json:"totalNetGainLoss"`
	TotalWashSaleLoss float64 `json:"totalWashSaleLoss"`

	ShortTermProceeds    float64 `json:"shortTermProceeds"`
	ShortTermCostBasis   float64 `json:"shortTermCostBasis"`
	ShortTermNetGainLoss float64 `json:"shortTermNetGainLoss"`

	LongTermProceeds    float64 `json:"longTermProceeds"`
	LongTermCostBasis   float64 `json:"longTermCostBasis"`
	LongTermNetGainLoss float64 `json:"longTermNetGainLoss"`
}

// ExtractionResult is the full outcome of running a document through the
// extraction pipeline. It is always well-formed: failed runs carry
// Success=false and Error, with an empty transaction list and zero totals.
// SummaryTotals is embedded so the aggregate figures marshal at the top
// level of the JSON object.
type ExtractionResult struct {
	Success       bool          `json:"success"`
	Brokerage     Brokerage     `json:"brokerage"`
	AccountNumber string        `json:"accountNumber"`
	TaxpayerName  string        `json:"taxpayerName"`
	DocumentID    string        `json:"documentId"`
	Transactions  []Transaction `json:"transactions"`
	SummaryTotals
	Error string `json:"error,omitempty"`
}
