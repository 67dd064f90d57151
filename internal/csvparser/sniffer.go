package csvparser

import (
	"strings"

	"ypbank/statements/internal/models"
)

// accountClassPrefixes are the Russian balance-sheet account classes that
// mark a line as carrying the statement's account number.
var accountClassPrefixes = []string{"40702", "40703", "40817"}

// legalEntityMarkers flag a field holding the organization name.
var legalEntityMarkers = []string{"ООО", "ИП", "АО"}

// HeaderInfo is what the sniffer recovers from the free-form header block.
type HeaderInfo struct {
	AccountNumber    string
	OrganizationName string
}

// SniffHeader scans the first ten header lines for the account number (a
// 20-digit token on a line mentioning a known account class) and the
// organization name (a field containing a legal entity marker). When no
// account number turns up, line six is rescanned as a fallback; fields that
// stay unknown get sentinel values.
func SniffHeader(lines []string) HeaderInfo {
	info := HeaderInfo{}

	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range lines[:limit] {
		if info.AccountNumber == "" && containsAny(line, accountClassPrefixes) {
			info.AccountNumber = findAccountToken(line)
		}
		if info.OrganizationName == "" && containsAny(line, legalEntityMarkers) {
			for _, part := range strings.Split(line, ",") {
				trimmed := strings.Trim(strings.TrimSpace(part), `"`)
				if containsAny(trimmed, legalEntityMarkers) {
					info.OrganizationName = trimmed
					break
				}
			}
		}
	}

	if info.AccountNumber == "" && len(lines) > 5 {
		info.AccountNumber = findAccountToken(lines[5])
	}

	if info.AccountNumber == "" {
		info.AccountNumber = models.UnknownAccountNumber
	}
	if info.OrganizationName == "" {
		info.OrganizationName = models.UnknownOrganizationName
	}
	return info
}

// findAccountToken returns the first comma-separated field that is exactly
// twenty ASCII digits.
func findAccountToken(line string) string {
	for _, part := range strings.Split(line, ",") {
		trimmed := strings.Trim(strings.TrimSpace(part), `"`)
		if len(trimmed) == 20 && allDigits(trimmed) {
			return trimmed
		}
	}
	return ""
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
