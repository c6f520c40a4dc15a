// Package serial encodes patient batches for offline/mobile
// data-collection clients. The wire format is selected by name through a
// registry so hosts can swap the implementation by configuration.
package serial

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Patient is one patient record in a batch. Optional fields are nil
// when absent; absence is preserved on the wire.
type Patient struct {
	ID         int
	Prefix     *string
	FamilyName *string
	MiddleName *string
	GivenName  *string
	Gender     *string
	BirthDate  *time.Time
	Identifier *string
}

// TableField describes one column of ancillary tabular data attached to
// a batch.
type TableField struct {
	ID   int
	Name string
}

// TableFieldValue is a sparse cell in the ancillary field-value table.
// The value is rendered as text on the wire.
type TableFieldValue struct {
	FieldID   int
	PatientID int
	Value     string
}

// PatientBatch is the unit of transfer: a list of patients plus
// optional field metadata and values.
type PatientBatch struct {
	Patients    []*Patient
	Fields      []*TableField
	FieldValues []*TableFieldValue
}

// Serializer is the capability interface behind which batch encodings
// are plugged in.
//
// Serialize is best-effort and never returns an error: I/O failures are
// logged and swallowed, and partial output may remain on the writer.
// Deserialize is the companion contract point; implementations that
// have no read path (no current consumer reads the format back) return
// nil unconditionally, and callers must not rely on it to reconstruct
// data.
type Serializer interface {
	Serialize(w io.Writer, batch *PatientBatch)
	Deserialize(r io.Reader) *PatientBatch
}

// Factory builds a serializer with the given logger.
type Factory func(logger zerolog.Logger) Serializer

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a serializer implementation available under name.
// Registering a duplicate name panics; registration happens at init
// time.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("serial: duplicate serializer " + name)
	}
	registry[name] = factory
}

// New builds the serializer registered under name.
func New(name string, logger zerolog.Logger) (Serializer, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("serial: unknown serializer %q (available: %v)", name, Names())
	}
	return factory(logger), nil
}

// Names lists the registered serializer names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
