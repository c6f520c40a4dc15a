package form

import (
	"github.com/openclinic/formsync/internal/platform/schema"
)

// Form is a published clinical data-collection form.
type Form struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	Published bool   `json:"published"`
}

// Field is one question on a form: an XML token bound to a concept,
// with the coded answers that apply when the concept is selectable.
type Field struct {
	Token     string
	Concept   *schema.Concept
	Required  bool
	Multiple  bool
	Answers   []schema.Answer
	SortOrder int
}

// xsTypeFor maps an HL7 datatype abbreviation to the XML Schema type
// used by a simple concept fragment.
func xsTypeFor(datatype string) string {
	switch datatype {
	case schema.DatatypeDate:
		return "xs:date"
	case schema.DatatypeTime:
		return "xs:time"
	case schema.DatatypeDatetime:
		return "xs:dateTime"
	case schema.DatatypeBoolean:
		return "_infopath_boolean"
	default:
		return "xs:string"
	}
}
