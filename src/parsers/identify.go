package parsers

import (
	"strings"

	"github.com/username/gainscan/backend/src/models"
)

// brokerageSignatures is scanned in order and the first signature found
// anywhere in the lowercased text decides the tag. The ordering is a
// deliberate priority: when a document mentions several institutions (ACAT
// transfer statements do), the earlier entry wins. Callers get the matched
// signature back so the resolution is observable in logs.
var brokerageSignatures = []struct {
	needles []string
	tag     models.Brokerage
}{
	{[]string{"robinhood"}, models.BrokerageRobinhood},
	{[]string{"interactive brokers", "ibkr"}, models.BrokerageInteractiveBrokers},
	{[]string{"td ameritrade", "schwab"}, models.BrokerageSchwabTD},
	{[]string{"fidelity"}, models.BrokerageFidelity},
	{[]string{"e*trade", "etrade"}, models.BrokerageETrade},
}

// IdentifyBrokerage scans document text for institution signatures and
// returns the matching tag together with the signature that decided it.
// No signature anywhere yields BrokerageUnknown and an empty string.
func IdentifyBrokerage(text string) (models.Brokerage, string) {
	lowered := strings.ToLower(text)
	for _, sig := range brokerageSignatures {
		for _, needle := range sig.needles {
			if strings.Contains(lowered, needle) {
				return sig.tag, needle
			}
		}
	}
	return models.BrokerageUnknown, ""
}
