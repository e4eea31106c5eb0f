// Package address maps host address and customer records onto the shape the
// gateway expects.
package address

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

var (
	// "Kraanspoor 39C", "Main Street 12 bis", "Damrak 1-3"
	trailingNumber = regexp.MustCompile(`^(.+)\s+(\d+[\p{L}\d\-/]*(?:\s+[\p{L}\d]{1,3})?)$`)
	// "39 Main Street", "12B Baker Street"
	leadingNumber = regexp.MustCompile(`^(\d+[\p{L}]?(?:[\-/]\d+[\p{L}]?)?)\s*,?\s+(.+)$`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// SplitStreet separates the street name from the house number.
//
// The house number is taken from address2 when address1 carries no digits
// at all; otherwise both lines are joined and the number is searched at the
// end and then at the start of the line. When no number can be found the
// whole line is returned as street.
func SplitStreet(address1, address2 string) (street, houseNumber string, err error) {
	address1 = normalize(address1)
	address2 = normalize(address2)

	if address1 == "" && address2 == "" {
		return "", "", domain.WrapError(domain.ErrorCodeAddressInvalid, "address line is empty", domain.ErrInvalidAddress)
	}

	if address1 == "" {
		address1, address2 = address2, ""
	}

	if address2 != "" && !hasDigit(address1) {
		return address1, address2, nil
	}

	full := strings.TrimSpace(address1 + " " + address2)

	if m := trailingNumber.FindStringSubmatch(full); m != nil {
		return strings.TrimRight(strings.TrimSpace(m[1]), ","), strings.TrimSpace(m[2]), nil
	}

	if m := leadingNumber.FindStringSubmatch(full); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1]), nil
	}

	return full, "", nil
}

// Locale builds a gateway locale like "nl_NL".
func Locale(languageISO, countryISO string) string {
	lang := strings.ToLower(strings.TrimSpace(languageISO))
	country := strings.ToUpper(strings.TrimSpace(countryISO))

	// host languages sometimes arrive as "nl-nl"
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		if country == "" {
			country = strings.ToUpper(lang[i+1:])
		}
		lang = lang[:i]
	}

	if lang == "" {
		return "en_US"
	}
	if country == "" {
		country = strings.ToUpper(lang)
	}
	return fmt.Sprintf("%s_%s", lang, country)
}

func normalize(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
