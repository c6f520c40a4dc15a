package serial

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// dateWidth is the fixed width of an encoded birth date: a big-endian
// signed millisecond Unix timestamp.
const dateWidth = 8

// wireWriter writes the big-endian primitives of the batch format. The
// first error sticks and turns every later write into a no-op, so
// encoding code can run straight through and check once at the end.
type wireWriter struct {
	w   io.Writer
	err error
}

func (ww *wireWriter) Err() error { return ww.err }

func (ww *wireWriter) write(p []byte) {
	if ww.err != nil {
		return
	}
	_, ww.err = ww.w.Write(p)
}

func (ww *wireWriter) writeInt32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	ww.write(buf[:])
}

func (ww *wireWriter) writeInt64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	ww.write(buf[:])
}

func (ww *wireWriter) writeUint8(v uint8) {
	ww.write([]byte{v})
}

func (ww *wireWriter) writeBool(v bool) {
	if v {
		ww.write([]byte{1})
	} else {
		ww.write([]byte{0})
	}
}

// writeString writes a UTF-8 string with a 16-bit big-endian length
// prefix.
func (ww *wireWriter) writeString(s string) {
	if len(s) > math.MaxUint16 {
		if ww.err == nil {
			ww.err = fmt.Errorf("serial: string of %d bytes exceeds 16-bit length prefix", len(s))
		}
		return
	}
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(len(s)))
	ww.write(buf[:])
	ww.write([]byte(s))
}

// writeOptionalString writes the tagged-optional encoding shared by
// every optional field: a one-byte discriminant, then the value when
// present.
func (ww *wireWriter) writeOptionalString(s *string) {
	if s == nil {
		ww.writeBool(false)
		return
	}
	ww.writeBool(true)
	ww.writeString(*s)
}

// writeOptionalDate writes an absent marker or the fixed-width date
// encoding.
func (ww *wireWriter) writeOptionalDate(t *time.Time) {
	if t == nil {
		ww.writeBool(false)
		return
	}
	ww.writeBool(true)
	ww.writeInt64(t.UnixMilli())
}
