package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned when a fragment is requested with inputs
// that violate the caller contract (nil concept, empty token, nil answer
// list). The builder never emits malformed XML for bad inputs.
var ErrInvalidInput = errors.New("schema: invalid input")

// NamespaceFunc derives the target namespace URI for a form's schema.
type NamespaceFunc func(form *Form) string

// Builder generates XML Schema text fragments for clinical
// data-collection forms. It is stateless apart from its immutable
// configuration and safe for concurrent use.
//
// A complete document is assembled by concatenating, in order: Header,
// StartForm, one ElementRef per field, CloseForm, PredefinedTypes, one
// concept fragment per field, Footer.
type Builder struct {
	namespaceFor NamespaceFunc
}

// NewBuilder creates a fragment builder. namespaceFor supplies the
// schema namespace for a form; it must not be nil.
func NewBuilder(namespaceFor NamespaceFunc) *Builder {
	return &Builder{namespaceFor: namespaceFor}
}

// Header returns the schema document prologue.
func (b *Builder) Header(form *Form) (string, error) {
	if form == nil {
		return "", fmt.Errorf("%w: form is nil", ErrInvalidInput)
	}
	return "<?xml version=\"1.0\"?>\n" +
		"<xs:schema xmlns:xs=\"http://www.w3.org/2001/XMLSchema\"\n" +
		"           xmlns:openmrs=\"" + b.namespaceFor(form) + "\"\n" +
		"           elementFormDefault=\"qualified\"\n" +
		"           attributeFormDefault=\"unqualified\">\n\n", nil
}

// StartForm returns the opening of the root form element and its
// mandatory header child.
func (b *Builder) StartForm() string {
	return "<xs:element name=\"form\">\n" +
		"  <xs:complexType>\n" +
		"    <xs:sequence>\n" +
		"      <xs:element name=\"header\" type=\"_header_section\" />\n"
}

// ElementRef returns a single element reference line for the root form
// sequence.
func (b *Builder) ElementRef(name, typ string) string {
	return "      <xs:element name=\"" + name + "\" type=\"" + typ + "\" />\n"
}

// CloseForm closes the root form element, stamping the form's fixed id,
// name and version attributes. The form name is attribute-escaped.
func (b *Builder) CloseForm(form *Form) (string, error) {
	if form == nil {
		return "", fmt.Errorf("%w: form is nil", ErrInvalidInput)
	}
	return "    </xs:sequence>\n" +
		"    <xs:attribute name=\"id\" type=\"xs:positiveInteger\" fixed=\"" +
		strconv.Itoa(form.ID) + "\" use=\"required\" />\n" +
		"    <xs:attribute name=\"name\" type=\"xs:string\" fixed=\"" +
		EscapeXML(form.Name) + "\" use=\"required\" />\n" +
		"    <xs:attribute name=\"version\" type=\"xs:string\" fixed=\"" +
		form.Version + "\" use=\"required\" />\n" +
		"  </xs:complexType>\n" +
		"</xs:element>\n\n", nil
}

// PredefinedTypes returns the four fixed named types shared by every
// form schema: the header record, the extensible "other" section, a
// non-empty string restriction, and the InfoPath-compatible boolean
// wrapper. They are constants and never parameterized.
func (b *Builder) PredefinedTypes() string {
	return "<xs:complexType name=\"_header_section\">\n" +
		"  <xs:sequence>\n" +
		"    <xs:element name=\"enterer\" type=\"xs:string\" />\n" +
		"    <xs:element name=\"date_entered\" type=\"xs:dateTime\" />\n" +
		"    <xs:element name=\"session\" type=\"xs:string\" />\n" +
		"    <xs:element name=\"uid\" type=\"xs:string\" />\n" +
		"  </xs:sequence>\n" +
		"</xs:complexType>\n\n" +
		"<xs:complexType name=\"_other_section\">\n" +
		"  <xs:sequence>\n" +
		"    <xs:any namespace=\"##any\" minOccurs=\"0\" maxOccurs=\"unbounded\"/>\n" +
		"  </xs:sequence>\n" +
		"</xs:complexType>\n\n" +
		"<xs:simpleType name=\"_requiredString\">\n" +
		"  <xs:restriction base=\"xs:string\">\n" +
		"    <xs:minLength value=\"1\" />\n" +
		"  </xs:restriction>\n" +
		"</xs:simpleType>\n\n" +
		"<xs:complexType name=\"_infopath_boolean\">\n" +
		"  <xs:simpleContent>\n" +
		"    <xs:extension base=\"xs:boolean\">\n" +
		"      <xs:attribute name=\"infopath_boolean_hack\" type=\"xs:positiveInteger\" use=\"required\" fixed=\"1\" />\n" +
		"    </xs:extension>\n" +
		"  </xs:simpleContent>\n" +
		"</xs:complexType>\n\n"
}

// SimpleConcept returns the complex type for a non-coded, non-numeric
// concept field. When the field is required and xsType is the plain
// string type, the value type is swapped to the non-empty string
// restriction.
func (b *Builder) SimpleConcept(token string, concept *Concept, xsType string, required bool, locale string) (string, error) {
	if err := checkConceptInput(token, concept); err != nil {
		return "", err
	}
	if required && xsType == "xs:string" {
		xsType = "_requiredString"
	}
	var sb strings.Builder
	sb.WriteString("<xs:complexType name=\"" + token + "\">\n")
	sb.WriteString("  <xs:sequence>\n")
	sb.WriteString(dateTimeChildren)
	sb.WriteString("    <xs:element name=\"value\" type=\"" + xsType +
		"\" nillable=\"" + nillable(required) + "\" />\n")
	sb.WriteString("  </xs:sequence>\n")
	sb.WriteString(conceptAttributes(concept, locale))
	sb.WriteString("</xs:complexType>\n\n")
	return sb.String(), nil
}

// NumericConcept returns the complex type for a numeric concept field.
// When the concept carries a lower or upper bound, a named restricted
// simple type is emitted first and referenced by the value element;
// otherwise the value uses the raw base type for the concept's
// precision.
func (b *Builder) NumericConcept(token string, concept *Concept, required bool, locale string) (string, error) {
	if err := checkConceptInput(token, concept); err != nil {
		return "", err
	}
	precise := concept.AllowDecimal
	base := "xs:int"
	if precise {
		base = "xs:float"
	}
	skipBounds := concept.LowAbsolute == nil && concept.HiAbsolute == nil

	var sb strings.Builder
	if !skipBounds {
		sb.WriteString("<xs:simpleType name=\"" + token + "_restricted_type\">\n")
		sb.WriteString("  <xs:restriction base=\"" + base + "\">\n")
		if concept.LowAbsolute != nil {
			sb.WriteString("    <xs:minInclusive value=\"" +
				NumericToString(*concept.LowAbsolute, precise) + "\" />\n")
		}
		if concept.HiAbsolute != nil {
			sb.WriteString("    <xs:maxInclusive value=\"" +
				NumericToString(*concept.HiAbsolute, precise) + "\" />\n")
		}
		sb.WriteString("  </xs:restriction>\n")
		sb.WriteString("</xs:simpleType>\n")
	}

	valueType := base
	if !skipBounds {
		valueType = token + "_restricted_type"
	}
	sb.WriteString("<xs:complexType name=\"" + token + "\">\n")
	sb.WriteString("  <xs:sequence>\n")
	sb.WriteString(dateTimeChildren)
	sb.WriteString("    <xs:element name=\"value\" type=\"" + valueType +
		"\" nillable=\"" + nillable(required) + "\" />\n")
	sb.WriteString("  </xs:sequence>\n")
	sb.WriteString(conceptAttributes(concept, locale))
	sb.WriteString("</xs:complexType>\n\n")
	return sb.String(), nil
}

// SelectSingle returns the complex type for a single-selection field.
// The value element is restricted to an inline enumeration of the
// rendered answer strings, in input order, with multiple="0".
func (b *Builder) SelectSingle(token string, concept *Concept, answers []Answer, required bool, locale string) (string, error) {
	if err := checkConceptInput(token, concept); err != nil {
		return "", err
	}
	if answers == nil {
		return "", fmt.Errorf("%w: answer list is nil", ErrInvalidInput)
	}
	var sb strings.Builder
	sb.WriteString("<xs:complexType name=\"" + token + "\">\n")
	sb.WriteString("  <xs:sequence>\n")
	sb.WriteString(dateTimeChildren)
	sb.WriteString("    <xs:element name=\"value\" minOccurs=\"0\" maxOccurs=\"1\" nillable=\"" +
		nillable(required) + "\">\n")
	sb.WriteString("      <xs:simpleType>\n")
	sb.WriteString("        <xs:restriction base=\"xs:string\">\n")
	for _, answer := range answers {
		if answer.Concept == nil {
			return "", fmt.Errorf("%w: answer concept is nil", ErrInvalidInput)
		}
		if answer.Drug != nil {
			sb.WriteString("          <xs:enumeration value=\"" +
				EscapeXML(ConceptString(answer.Concept, locale)+"^"+DrugString(answer.Drug)) +
				"\" /> <!-- " + answer.Drug.Name + " -->\n")
		} else {
			sb.WriteString("          <xs:enumeration value=\"" +
				EscapeXML(ConceptString(answer.Concept, locale)) +
				"\" /> <!-- " + answer.Concept.Name(locale) + " -->\n")
		}
	}
	sb.WriteString("        </xs:restriction>\n")
	sb.WriteString("      </xs:simpleType>\n")
	sb.WriteString("    </xs:element>\n")
	sb.WriteString("  </xs:sequence>\n")
	sb.WriteString(conceptAttributes(concept, locale))
	sb.WriteString("  <xs:attribute name=\"multiple\" type=\"xs:integer\" use=\"required\" fixed=\"0\" />\n")
	sb.WriteString("</xs:complexType>\n\n")
	return sb.String(), nil
}

// SelectMultiple returns the complex type for a multiple-selection
// field: one boolean child element per answer, named by tokenizing the
// drug name when present, otherwise the concept display name. Every
// child is individually nillable with default "false"; multiple="1".
func (b *Builder) SelectMultiple(token string, concept *Concept, answers []Answer, locale string) (string, error) {
	if err := checkConceptInput(token, concept); err != nil {
		return "", err
	}
	if answers == nil {
		return "", fmt.Errorf("%w: answer list is nil", ErrInvalidInput)
	}
	var sb strings.Builder
	sb.WriteString("<xs:complexType name=\"" + token + "\">\n")
	sb.WriteString("  <xs:sequence>\n")
	sb.WriteString(dateTimeChildren)
	for _, answer := range answers {
		if answer.Concept == nil {
			return "", fmt.Errorf("%w: answer concept is nil", ErrInvalidInput)
		}
		var childName, conceptAttr string
		if answer.Drug != nil {
			childName = XMLToken(answer.Drug.Name)
			conceptAttr = EscapeXML(ConceptString(answer.Concept, locale) + "^" + DrugString(answer.Drug))
		} else {
			childName = XMLToken(answer.Concept.Name(locale))
			conceptAttr = EscapeXML(ConceptString(answer.Concept, locale))
		}
		sb.WriteString("    <xs:element name=\"" + childName + "\" default=\"false\" nillable=\"true\">\n")
		sb.WriteString("      <xs:complexType>\n")
		sb.WriteString("        <xs:simpleContent>\n")
		sb.WriteString("          <xs:extension base=\"xs:boolean\">\n")
		sb.WriteString("            <xs:attribute name=\"openmrs_concept\" type=\"xs:string\" use=\"required\" fixed=\"" +
			conceptAttr + "\" />\n")
		sb.WriteString("          </xs:extension>\n")
		sb.WriteString("        </xs:simpleContent>\n")
		sb.WriteString("      </xs:complexType>\n")
		sb.WriteString("    </xs:element>\n")
	}
	sb.WriteString("  </xs:sequence>\n")
	sb.WriteString(conceptAttributes(concept, locale))
	sb.WriteString("  <xs:attribute name=\"multiple\" type=\"xs:integer\" use=\"required\" fixed=\"1\" />\n")
	sb.WriteString("</xs:complexType>\n\n")
	return sb.String(), nil
}

// Footer returns the closing schema tag.
func (b *Builder) Footer() string {
	return "</xs:schema>"
}

// NumericToString renders a numeric bound or value. Precise values keep
// their full decimal representation; imprecise values are rounded to
// the nearest integer (half rounds up).
func NumericToString(value float64, precise bool) string {
	if precise {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return strconv.FormatInt(int64(math.Floor(value+0.5)), 10)
}

const dateTimeChildren = "    <xs:element name=\"date\" type=\"xs:date\" nillable=\"true\" minOccurs=\"0\" />\n" +
	"    <xs:element name=\"time\" type=\"xs:time\" nillable=\"true\" minOccurs=\"0\" />\n"

// nillable renders the value element's nillable flag, the logical
// negation of required.
func nillable(required bool) string {
	if required {
		return "0"
	}
	return "1"
}

// conceptAttributes renders the fixed openmrs_concept and
// openmrs_datatype attributes common to every concept fragment.
func conceptAttributes(concept *Concept, locale string) string {
	return "  <xs:attribute name=\"openmrs_concept\" type=\"xs:string\" use=\"required\" fixed=\"" +
		EscapeXML(ConceptString(concept, locale)) + "\" />\n" +
		"  <xs:attribute name=\"openmrs_datatype\" type=\"xs:string\" use=\"required\" fixed=\"" +
		concept.Datatype + "\" />\n"
}

func checkConceptInput(token string, concept *Concept) error {
	if token == "" {
		return fmt.Errorf("%w: token is empty", ErrInvalidInput)
	}
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidInput)
	}
	if concept.Datatype == "" {
		return fmt.Errorf("%w: concept %d has no datatype", ErrInvalidInput, concept.ID)
	}
	return nil
}
