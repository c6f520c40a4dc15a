package schema

// Form identifies the form a schema is generated for. Only the fixed
// attributes stamped into the document are carried here.
type Form struct {
	ID      int
	Name    string
	Version string
}

// Concept is a clinical vocabulary entry referenced by a form field.
// Names maps a locale code ("en", "fr", ...) to the display name in that
// locale. LowAbsolute/HiAbsolute are the inclusive numeric bounds for
// numeric concepts; nil means unbounded on that side.
type Concept struct {
	ID           int
	Datatype     string // HL7 datatype abbreviation ("NM", "ST", "CWE", ...)
	Names        map[string]string
	LowAbsolute  *float64
	HiAbsolute   *float64
	AllowDecimal bool
}

// Name returns the concept display name for the given locale, falling
// back to any available name when the locale has no entry.
func (c *Concept) Name(locale string) string {
	if n, ok := c.Names[locale]; ok {
		return n
	}
	for _, n := range c.Names {
		return n
	}
	return ""
}

// Drug is a drug-specific refinement of a coded answer.
type Drug struct {
	ID   int
	Name string
}

// Answer is one legal response to a coded question. Drug is nil for
// plain concept answers.
type Answer struct {
	Concept *Concept
	Drug    *Drug
}

// HL7 datatype abbreviations used when choosing a fragment shape.
const (
	DatatypeNumeric  = "NM"
	DatatypeCoded    = "CWE"
	DatatypeText     = "ST"
	DatatypeBoolean  = "BIT"
	DatatypeDate     = "DT"
	DatatypeTime     = "TM"
	DatatypeDatetime = "TS"
)
