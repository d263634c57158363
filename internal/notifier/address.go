package notifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RecipientAddress synthesizes the mailbox of an employee as given.surname@domain.
//
// Each name part has diacritics folded ("José" becomes "jose"), is lower-cased and loses
// every whitespace character. Dots inside a part are collapsed and leading or trailing dots
// dropped, so "Smith Jr." becomes "smithjr". Letters without an ASCII decomposition, such as
// 'ø' or Cyrillic, are kept as they are. The domain is trimmed and lower-cased.
func RecipientAddress(givenName, surname, domain string) string {
	local := localPart(givenName) + "." + localPart(surname)

	return local + "@" + strings.ToLower(strings.TrimSpace(domain))
}

func localPart(name string) string {
	part := strings.Join(strings.Fields(strings.ToLower(foldDiacritics(name))), "")

	return strings.Join(strings.FieldsFunc(part, func(r rune) bool { return r == '.' }), ".")
}

func foldDiacritics(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}

	return folded
}
