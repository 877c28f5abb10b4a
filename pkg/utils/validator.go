package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var amountRegex = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidateAmount validates a monetary amount string. Amounts travel as
// decimal strings end to end; they are never parsed into floats.
func ValidateAmount(amount string) error {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return fmt.Errorf("amount is required")
	}
	if !amountRegex.MatchString(amount) {
		return fmt.Errorf("invalid amount format: %s", amount)
	}
	if strings.Trim(amount, "0.") == "" {
		return fmt.Errorf("amount must be positive: %s", amount)
	}
	return nil
}

// SanitizeString removes control characters from user-supplied text
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
