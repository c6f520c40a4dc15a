package schema

import (
	"strconv"
	"strings"
	"unicode"
)

// Local coding-system suffixes for rendered concept and drug
// identifier strings.
const (
	localConceptCoding = "99DCT"
	localDrugCoding    = "99RX"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five predefined XML entities so that s can be
// embedded in an attribute value.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// ConceptString renders a concept as its canonical identifier string:
// "<id>^<display name>^99DCT".
func ConceptString(concept *Concept, locale string) string {
	return strconv.Itoa(concept.ID) + "^" + concept.Name(locale) + "^" + localConceptCoding
}

// DrugString renders a drug as its canonical identifier string:
// "<id>^<name>^99RX".
func DrugString(drug *Drug) string {
	return strconv.Itoa(drug.ID) + "^" + drug.Name + "^" + localDrugCoding
}

// XMLToken derives a valid XML element name from a display name. Runs
// of characters that are not letters or digits collapse to a single
// underscore, leading and trailing underscores are trimmed, and a name
// that would start with a digit is prefixed with an underscore.
func XMLToken(name string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		} else if !lastUnderscore && sb.Len() > 0 {
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}
	token := strings.TrimRight(sb.String(), "_")
	if token == "" {
		return "_"
	}
	if token[0] >= '0' && token[0] <= '9' {
		token = "_" + token
	}
	return token
}
