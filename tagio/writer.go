package tagio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer accumulates an ABC tag body.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated tag body.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteU8 writes one byte.
func (w *Writer) WriteU8(b byte) {
	w.buf.WriteByte(b)
}

// WriteBlock writes raw bytes verbatim.
func (w *Writer) WriteBlock(b []byte) {
	w.buf.Write(b)
}

// WriteU30 writes v using the same 7-bit/MSB-continuation encoding
// ReadU30 parses.
func (w *Writer) WriteU30(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			w.buf.WriteByte(b | 0x80)
		} else {
			w.buf.WriteByte(b)
			return
		}
	}
}

// WriteS30 writes v as its two's-complement 32-bit pattern through
// the same varint encoding as WriteU30.
func (w *Writer) WriteS30(v int32) {
	w.WriteU30(uint32(v))
}

// WriteD64 writes v as 8 little-endian bytes.
func (w *Writer) WriteD64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

// WriteU30String writes a u30 length followed by s's UTF-8 bytes.
func (w *Writer) WriteU30String(s string) {
	w.WriteU30(uint32(len(s)))
	w.buf.WriteString(s)
}
