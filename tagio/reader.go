// Package tagio implements the bit-level primitives an ABC tag stream
// is built from: u30/s30 variable-length integers, u8 bytes, raw
// blocks, and little-endian 64-bit doubles. It is the "tag
// reader/writer" external collaborator the constant-pool codec is
// specified against — a cursor over an in-memory byte slice, not a
// general stream abstraction.
package tagio

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a read runs past the end of the
// underlying buffer.
var ErrTruncated = errors.New("tagio: truncated tag stream")

// Reader is a forward-only cursor over a byte slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reading.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrTruncated
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBlock reads n raw bytes.
func (r *Reader) ReadBlock(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, ErrTruncated
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU30 reads a variable-length unsigned integer: up to 5 bytes,
// 7 payload bits per byte, MSB continuation. The result is not masked
// to 30 bits: a 5th byte contributes its low 4 payload bits, so the
// value can use all 32 bits, and any higher payload bits of that byte
// fall off the 32-bit result.
func (r *Reader) ReadU30() (uint32, error) {
	var result uint32
	for shift := uint(0); shift < 35; shift += 7 {
		b, err := r.ReadU8()
		if err != nil {
			return 0, errors.Wrap(err, "read u30")
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return result, nil
}

// ReadS30 reads a variable-length signed integer using the same byte
// encoding as ReadU30, sign-extended from the 30th payload bit.
func (r *Reader) ReadS30() (int32, error) {
	u, err := r.ReadU30()
	if err != nil {
		return 0, err
	}
	const signBit = uint32(1) << 29
	if u&signBit != 0 {
		u |= 0xC0000000 // sign-extend bits 30,31
	}
	return int32(u), nil
}

// ReadD64 reads 8 raw little-endian bytes as an IEEE-754 double.
func (r *Reader) ReadD64() (float64, error) {
	b, err := r.ReadBlock(8)
	if err != nil {
		return 0, errors.Wrap(err, "read d64")
	}
	bits := binary.LittleEndian.Uint64(b)
	return math.Float64frombits(bits), nil
}

// ReadU30String reads a u30 length followed by that many UTF-8 bytes
// (no terminator on the wire).
func (r *Reader) ReadU30String() (string, error) {
	n, err := r.ReadU30()
	if err != nil {
		return "", errors.Wrap(err, "read string length")
	}
	b, err := r.ReadBlock(int(n))
	if err != nil {
		return "", errors.Wrap(err, "read string bytes")
	}
	return string(b), nil
}
