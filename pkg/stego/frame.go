package stego

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/yyyoichi/bitstream-go"
)

// lengthPrefixSize is the width of the big-endian byte count that precedes
// the message text in a frame.
const lengthPrefixSize = 8

// FrameBits returns the number of bits a message of n bytes occupies once
// framed.
func FrameBits(n int) int {
	return (lengthPrefixSize + n) * 8
}

// Packer hands out the bits of a framed message one at a time, most
// significant bit of each byte first, length prefix before text.
type Packer struct {
	reader *bitstream.BitReader[uint64]
	bits   int
	pos    int
}

func NewPacker(message string) *Packer {
	frame := make([]byte, lengthPrefixSize, lengthPrefixSize+len(message))
	binary.BigEndian.PutUint64(frame, uint64(len(message)))
	frame = append(frame, message...)

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range frame {
		for i := 7; i >= 0; i-- {
			w.WriteBool((b>>uint(i))&1 == 1)
		}
	}

	bits := len(frame) * 8
	reader := bitstream.NewBitReader(w.Data(), 0, 0)
	reader.SetBits(bits)
	return &Packer{reader: reader, bits: bits}
}

// Next returns the next bit. ok is false once the frame is exhausted.
func (p *Packer) Next() (bit bool, ok bool) {
	if p.pos >= p.bits {
		return false, false
	}
	bit, _ = p.reader.ReadBitAt(p.pos)
	p.pos++
	return bit, true
}

// Remaining reports how many bits have not been read yet.
func (p *Packer) Remaining() int {
	return p.bits - p.pos
}

// Unpack rebuilds the message from recovered bits. Bits are grouped into
// bytes MSB first and a trailing group shorter than a byte is dropped.
func Unpack(bits []bool) (string, error) {
	data := bitsToBytes(bits)
	if len(data) < lengthPrefixSize {
		return "", fmt.Errorf("%w: recovered %d bytes, length prefix needs %d", ErrUnderflow, len(data), lengthPrefixSize)
	}

	length := binary.BigEndian.Uint64(data[:lengthPrefixSize])
	body := data[lengthPrefixSize:]
	if length > uint64(len(body)) {
		return "", fmt.Errorf("%w: declared length %d exceeds %d recovered bytes", ErrUnderflow, length, len(body))
	}

	payload := body[:length]
	if !utf8.Valid(payload) {
		return "", ErrInvalidEncoding
	}
	return string(payload), nil
}

func bitsToBytes(bits []bool) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var v byte
		for j := 0; j < 8; j++ {
			if bits[i*8+j] {
				v |= 1 << uint(7-j)
			}
		}
		out[i] = v
	}
	return out
}
