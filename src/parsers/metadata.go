package parsers

import (
	"regexp"
	"strings"
)

var (
	accountNumberPattern = regexp.MustCompile(`(?i)Account Number[:\s]+(\d+)`)

	// Header layouts differ per brokerage and tax year; tried in order.
	taxpayerNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)RECIPIENT[:\s]+([A-Z\s]+)`),
		regexp.MustCompile(`(?i)PAYER'S name[:\s]+([A-Z\s]+)`),
		regexp.MustCompile(`(?i)Recipient's name[:\s]+([A-Z\s]+)`),
	}
)

// ScanDocumentMetadata pulls the account number and taxpayer name out of the
// document's header region. Both default to "Unknown": text dumps of scanned
// statements frequently lose these lines entirely.
func ScanDocumentMetadata(text string) (accountNumber, taxpayerName string) {
	accountNumber = "Unknown"
	taxpayerName = "Unknown"

	if m := accountNumberPattern.FindStringSubmatch(text); m != nil {
		accountNumber = m[1]
	}

	for _, pattern := range taxpayerNamePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// The capture is greedy across whitespace, so it tends to swallow the
		// start of the next header line; keep only the first line.
		if name := firstLine(m[1]); name != "" {
			taxpayerName = name
		}
		break
	}
	return accountNumber, taxpayerName
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
