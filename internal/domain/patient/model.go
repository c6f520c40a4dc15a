package patient

import (
	"time"

	"github.com/openclinic/formsync/internal/platform/serial"
)

// Patient is a patient row as stored, with optional demographics.
type Patient struct {
	ID         int        `json:"id"`
	Prefix     *string    `json:"prefix,omitempty"`
	FamilyName *string    `json:"family_name,omitempty"`
	MiddleName *string    `json:"middle_name,omitempty"`
	GivenName  *string    `json:"given_name,omitempty"`
	Gender     *string    `json:"gender,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Identifier *string    `json:"identifier,omitempty"`
}

// TableField describes one column of ancillary tabular data exported
// alongside the patient batch.
type TableField struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TableFieldValue is one cell of ancillary data for a patient.
type TableFieldValue struct {
	FieldID   int    `json:"field_id"`
	PatientID int    `json:"patient_id"`
	Value     string `json:"value"`
}

// toBatch maps domain rows onto the wire batch consumed by the
// serializer.
func toBatch(patients []*Patient, fields []*TableField, values []*TableFieldValue) *serial.PatientBatch {
	batch := &serial.PatientBatch{
		Patients:    make([]*serial.Patient, len(patients)),
		Fields:      make([]*serial.TableField, len(fields)),
		FieldValues: make([]*serial.TableFieldValue, len(values)),
	}
	for i, p := range patients {
		batch.Patients[i] = &serial.Patient{
			ID:         p.ID,
			Prefix:     p.Prefix,
			FamilyName: p.FamilyName,
			MiddleName: p.MiddleName,
			GivenName:  p.GivenName,
			Gender:     p.Gender,
			BirthDate:  p.BirthDate,
			Identifier: p.Identifier,
		}
	}
	for i, f := range fields {
		batch.Fields[i] = &serial.TableField{ID: f.ID, Name: f.Name}
	}
	for i, v := range values {
		batch.FieldValues[i] = &serial.TableFieldValue{
			FieldID:   v.FieldID,
			PatientID: v.PatientID,
			Value:     v.Value,
		}
	}
	return batch
}
