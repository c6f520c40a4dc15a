package serial

import (
	"io"

	"github.com/rs/zerolog"
)

// BinaryName is the registry name of the default compact binary
// serializer.
const BinaryName = "binary"

func init() {
	Register(BinaryName, func(logger zerolog.Logger) Serializer {
		return NewBinarySerializer(logger)
	})
}

// BinarySerializer writes a patient batch as a flat big-endian binary
// stream:
//
//	int32 patient count                 (always written; zero ends the stream)
//	per patient, in input order:
//	  int32 id
//	  optional prefix, family, middle, given, gender  (tagged strings)
//	  optional birth date                             (tagged, 8-byte millis)
//	  optional identifier                             (tagged string)
//	  bool false                                      (reserved new-patient flag)
//	uint8 field count                   (section absent: stream ends here)
//	per field: int32 id, string name
//	int32 field value count             (section absent: stream ends here)
//	per value: int32 field id, int32 patient id, string value
//
// The trailing two sections are signaled by early termination, not by
// explicit "none" markers. The stream carries no version tag; format
// changes need out-of-band agreement with consumers.
type BinarySerializer struct {
	log zerolog.Logger
}

// NewBinarySerializer creates the default binary batch serializer.
func NewBinarySerializer(logger zerolog.Logger) *BinarySerializer {
	return &BinarySerializer{log: logger}
}

// Serialize encodes the batch onto w. Failures are logged and
// swallowed; the stream may be left partially written and callers must
// not assume it is complete or rolled back on failure.
func (s *BinarySerializer) Serialize(w io.Writer, batch *PatientBatch) {
	if batch == nil {
		return
	}
	ww := &wireWriter{w: w}
	s.encode(ww, batch)
	if err := ww.Err(); err != nil {
		s.log.Error().Err(err).Msg("patient batch encode failed")
	}
}

func (s *BinarySerializer) encode(ww *wireWriter, batch *PatientBatch) {
	ww.writeInt32(int32(len(batch.Patients)))
	if len(batch.Patients) == 0 {
		return
	}
	for _, p := range batch.Patients {
		s.encodePatient(ww, p)
	}

	if len(batch.Fields) == 0 {
		return
	}
	if len(batch.Fields) > 255 {
		s.log.Error().Int("fields", len(batch.Fields)).
			Msg("field count exceeds 8-bit limit, field sections dropped")
		return
	}
	ww.writeUint8(uint8(len(batch.Fields)))
	for _, f := range batch.Fields {
		ww.writeInt32(int32(f.ID))
		ww.writeString(f.Name)
	}

	if len(batch.FieldValues) == 0 {
		return
	}
	ww.writeInt32(int32(len(batch.FieldValues)))
	for _, fv := range batch.FieldValues {
		ww.writeInt32(int32(fv.FieldID))
		ww.writeInt32(int32(fv.PatientID))
		ww.writeString(fv.Value)
	}
}

func (s *BinarySerializer) encodePatient(ww *wireWriter, p *Patient) {
	ww.writeInt32(int32(p.ID))
	ww.writeOptionalString(p.Prefix)
	ww.writeOptionalString(p.FamilyName)
	ww.writeOptionalString(p.MiddleName)
	ww.writeOptionalString(p.GivenName)
	ww.writeOptionalString(p.Gender)
	ww.writeOptionalDate(p.BirthDate)
	ww.writeOptionalString(p.Identifier)
	ww.writeBool(false) // reserved new-patient flag, always false
}

// Deserialize is the intentionally unimplemented read path: clients
// return collected data as XForms, never in this format, so no inverse
// exists. It always returns nil. Do not complete it without a new
// consumer requirement.
func (s *BinarySerializer) Deserialize(r io.Reader) *PatientBatch {
	return nil
}
