package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/openclinic/formsync/internal/platform/schema"
)

// Service assembles complete XML Schema documents for forms.
type Service struct {
	repo          Repository
	builder       *schema.Builder
	defaultLocale string
}

// NewService creates a form service.
func NewService(repo Repository, builder *schema.Builder, defaultLocale string) *Service {
	return &Service{repo: repo, builder: builder, defaultLocale: defaultLocale}
}

// BuildSchema generates the XSD document for a form in the given
// locale. The document is assembled as: header, form element with one
// reference per field plus the extensible other section, the predefined
// types, one concept type per field, footer.
func (s *Service) BuildSchema(ctx context.Context, formID int, locale string) (string, error) {
	if locale == "" {
		locale = s.defaultLocale
	}

	f, err := s.repo.GetForm(ctx, formID)
	if err != nil {
		return "", err
	}
	fields, err := s.repo.ListFields(ctx, formID)
	if err != nil {
		return "", err
	}

	sf := &schema.Form{ID: f.ID, Name: f.Name, Version: f.Version}

	var doc strings.Builder
	header, err := s.builder.Header(sf)
	if err != nil {
		return "", err
	}
	doc.WriteString(header)
	doc.WriteString(s.builder.StartForm())
	for _, field := range fields {
		doc.WriteString(s.builder.ElementRef(field.Token, field.Token))
	}
	doc.WriteString(s.builder.ElementRef("other", "_other_section"))
	closeForm, err := s.builder.CloseForm(sf)
	if err != nil {
		return "", err
	}
	doc.WriteString(closeForm)
	doc.WriteString(s.builder.PredefinedTypes())

	for _, field := range fields {
		fragment, err := s.fieldFragment(field, locale)
		if err != nil {
			return "", fmt.Errorf("form %d field %q: %w", formID, field.Token, err)
		}
		doc.WriteString(fragment)
	}

	doc.WriteString(s.builder.Footer())
	return doc.String(), nil
}

// fieldFragment picks the fragment shape for a field from its concept
// datatype: numeric concepts get bound-restricted numeric types, coded
// concepts get single or multiple selection per the field flag, and
// everything else is a simple concept with the datatype's XML Schema
// type.
func (s *Service) fieldFragment(field *Field, locale string) (string, error) {
	switch {
	case field.Concept == nil:
		return "", fmt.Errorf("%w: field has no concept", schema.ErrInvalidInput)
	case field.Concept.Datatype == schema.DatatypeNumeric:
		return s.builder.NumericConcept(field.Token, field.Concept, field.Required, locale)
	case field.Concept.Datatype == schema.DatatypeCoded && field.Multiple:
		return s.builder.SelectMultiple(field.Token, field.Concept, field.Answers, locale)
	case field.Concept.Datatype == schema.DatatypeCoded:
		return s.builder.SelectSingle(field.Token, field.Concept, field.Answers, field.Required, locale)
	default:
		return s.builder.SimpleConcept(field.Token, field.Concept,
			xsTypeFor(field.Concept.Datatype), field.Required, locale)
	}
}
