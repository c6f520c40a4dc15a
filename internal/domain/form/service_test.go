package form

import (
	"context"
	"strings"
	"testing"

	"github.com/openclinic/formsync/internal/platform/schema"
)

// =========== Mock Repository ===========

type mockRepo struct {
	forms  map[int]*Form
	fields map[int][]*Field
}

func newMockRepo() *mockRepo {
	weightLow, weightHigh := 0.0, 250.0
	concepts := map[string]*schema.Concept{
		"weight": {
			ID:           5089,
			Datatype:     schema.DatatypeNumeric,
			Names:        map[string]string{"en": "WEIGHT (KG)"},
			LowAbsolute:  &weightLow,
			HiAbsolute:   &weightHigh,
			AllowDecimal: true,
		},
		"hiv": {
			ID:       1030,
			Datatype: schema.DatatypeCoded,
			Names:    map[string]string{"en": "HIV RAPID TEST", "fr": "TEST RAPIDE VIH"},
		},
		"meds": {
			ID:       1193,
			Datatype: schema.DatatypeCoded,
			Names:    map[string]string{"en": "CURRENT MEDICATION"},
		},
		"comment": {
			ID:       1364,
			Datatype: schema.DatatypeText,
			Names:    map[string]string{"en": "CLINICAL COMMENT"},
		},
	}
	hivAnswers := []schema.Answer{
		{Concept: &schema.Concept{ID: 664, Datatype: schema.DatatypeText, Names: map[string]string{"en": "NEGATIVE"}}},
		{Concept: &schema.Concept{ID: 703, Datatype: schema.DatatypeText, Names: map[string]string{"en": "POSITIVE"}}},
	}
	medAnswers := []schema.Answer{
		{
			Concept: &schema.Concept{ID: 797, Datatype: schema.DatatypeText, Names: map[string]string{"en": "ZIDOVUDINE"}},
			Drug:    &schema.Drug{ID: 22, Name: "AZT 300mg"},
		},
		{Concept: &schema.Concept{ID: 628, Datatype: schema.DatatypeText, Names: map[string]string{"en": "FLUCONAZOLE"}}},
	}
	return &mockRepo{
		forms: map[int]*Form{
			1: {ID: 1, Name: "Adult HIV Visit", Version: "1.2", Published: true},
		},
		fields: map[int][]*Field{
			1: {
				{Token: "weight_kg", Concept: concepts["weight"], Required: true, SortOrder: 1},
				{Token: "hiv_rapid_test", Concept: concepts["hiv"], Answers: hivAnswers, SortOrder: 2},
				{Token: "current_medication", Concept: concepts["meds"], Multiple: true, Answers: medAnswers, SortOrder: 3},
				{Token: "clinical_comment", Concept: concepts["comment"], SortOrder: 4},
			},
		},
	}
}

func (m *mockRepo) GetForm(_ context.Context, id int) (*Form, error) {
	f, ok := m.forms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func (m *mockRepo) ListFields(_ context.Context, formID int) ([]*Field, error) {
	return m.fields[formID], nil
}

func testService() *Service {
	builder := schema.NewBuilder(func(f *schema.Form) string {
		return "http://localhost/formsync/forms/1/schema"
	})
	return NewService(newMockRepo(), builder, "en")
}

// =========== Tests ===========

func TestBuildSchemaDocumentShape(t *testing.T) {
	doc, err := testService().BuildSchema(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}

	if !strings.HasPrefix(doc, "<?xml version=\"1.0\"?>") {
		t.Error("document should start with the XML declaration")
	}
	if !strings.HasSuffix(doc, "</xs:schema>") {
		t.Error("document should end with the schema footer")
	}

	// Root form element references every field plus the other section,
	// before the fixed form attributes.
	for _, ref := range []string{
		`<xs:element name="weight_kg" type="weight_kg" />`,
		`<xs:element name="hiv_rapid_test" type="hiv_rapid_test" />`,
		`<xs:element name="current_medication" type="current_medication" />`,
		`<xs:element name="clinical_comment" type="clinical_comment" />`,
		`<xs:element name="other" type="_other_section" />`,
	} {
		if !strings.Contains(doc, ref) {
			t.Errorf("missing form element reference %s", ref)
		}
	}
	if !strings.Contains(doc, `fixed="Adult HIV Visit"`) || !strings.Contains(doc, `fixed="1.2"`) {
		t.Error("missing fixed form name/version attributes")
	}

	// One fragment per field, shaped by datatype.
	if !strings.Contains(doc, `<xs:simpleType name="weight_kg_restricted_type">`) {
		t.Error("numeric field should emit a restricted type")
	}
	if !strings.Contains(doc, `name="multiple" type="xs:integer" use="required" fixed="0"`) {
		t.Error("single-select field missing multiple=0")
	}
	if !strings.Contains(doc, `name="multiple" type="xs:integer" use="required" fixed="1"`) {
		t.Error("multi-select field missing multiple=1")
	}
	if !strings.Contains(doc, `<xs:element name="azt_300mg" default="false"`) {
		t.Error("multi-select drug answer missing tokenized child")
	}
	if !strings.Contains(doc, `<xs:complexType name="clinical_comment">`) {
		t.Error("text field missing simple concept fragment")
	}

	// Predefined types appear exactly once.
	if got := strings.Count(doc, `name="_requiredString"`); got != 1 {
		t.Errorf("_requiredString emitted %d times", got)
	}
}

func TestBuildSchemaLocale(t *testing.T) {
	doc, err := testService().BuildSchema(context.Background(), 1, "fr")
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	if !strings.Contains(doc, "1030^TEST RAPIDE VIH^99DCT") {
		t.Error("concept strings should use the requested locale")
	}
	// Concepts without a translation fall back to an available name.
	if !strings.Contains(doc, "5089^WEIGHT (KG)^99DCT") {
		t.Error("untranslated concepts should fall back to an available name")
	}
}

func TestBuildSchemaUnknownForm(t *testing.T) {
	_, err := testService().BuildSchema(context.Background(), 99, "en")
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
