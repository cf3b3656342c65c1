package patient

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// nameSeparators collapses the separator characters DICOM and manual entry
// use between name components.
var nameSeparators = strings.NewReplacer("^", " ", ",", " ", "_", " ")

// CleanName collapses name separators to single spaces and normalizes
// whitespace. Empty input yields Unknown.
func CleanName(name string) string {
	name = nameSeparators.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return Unknown
	}
	return name
}

// NormalizeName tokenizes a name for order-insensitive comparison: separators
// collapsed, tokens uppercased and sorted. Returns nil for empty or Unknown
// names, which never match anything.
func NormalizeName(name string) []string {
	if name == "" || name == Unknown {
		return nil
	}
	cleaned := nameSeparators.Replace(name)
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, upper.String(field))
	}
	sort.Strings(tokens)
	return tokens
}

// NamesMatch reports whether two names likely refer to the same person,
// ignoring token order ("SMITH^JOHN" matches "John Smith").
func NamesMatch(a, b string) bool {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == nil || nb == nil {
		return false
	}
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}
