// backend/src/parsers/factory.go
package parsers

import (
	"fmt"

	"github.com/username/gainscan/backend/src/models"
	"github.com/username/gainscan/backend/src/parsers/fidelity"
	"github.com/username/gainscan/backend/src/parsers/ibkr"
	"github.com/username/gainscan/backend/src/parsers/robinhood"
	"github.com/username/gainscan/backend/src/parsers/schwabtd"
)

// GetExtractor returns the extractor registered for a brokerage tag. Adding
// support for a new institution means adding one package and one case here;
// nothing else in the pipeline changes. Tags without a registered extractor
// (etrade, unknown) come back as an error, which the pipeline surfaces as an
// unsupported-brokerage failure.
func GetExtractor(brokerage models.Brokerage) (Extractor, error) {
	switch brokerage {
	case models.BrokerageRobinhood:
		return robinhood.NewExtractor(), nil
	case models.BrokerageInteractiveBrokers:
		return ibkr.NewExtractor(), nil
	case models.BrokerageSchwabTD:
		return schwabtd.NewExtractor(), nil
	case models.BrokerageFidelity:
		return fidelity.NewExtractor(), nil
	default:
		return nil, fmt.Errorf("no extractor available for brokerage: %s", brokerage)
	}
}
