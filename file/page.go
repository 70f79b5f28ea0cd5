package file

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"
)

// Page holds the contents of one disk block in memory.
type Page struct {
	buffer []byte
}

// NewPage creates a Page with a buffer of the given block size.
func NewPage(blockSize int) *Page {
	return &Page{buffer: make([]byte, blockSize)}
}

// NewPageFromBytes creates a Page by wrapping the provided byte slice.
func NewPageFromBytes(bytes []byte) *Page {
	return &Page{buffer: bytes}
}

// GetInt retrieves a 32-bit integer from the buffer at the specified offset.
func (p *Page) GetInt(offset int) int {
	return int(int32(binary.BigEndian.Uint32(p.buffer[offset:])))
}

// SetInt writes a 32-bit integer to the buffer at the specified offset.
func (p *Page) SetInt(offset int, n int) {
	binary.BigEndian.PutUint32(p.buffer[offset:], uint32(int32(n)))
}

// GetFloat retrieves a 32-bit IEEE-754 float from the buffer at the specified offset.
func (p *Page) GetFloat(offset int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(p.buffer[offset:]))
}

// SetFloat writes a 32-bit IEEE-754 float to the buffer at the specified offset.
func (p *Page) SetFloat(offset int, f float32) {
	binary.BigEndian.PutUint32(p.buffer[offset:], math.Float32bits(f))
}

// GetBytes retrieves a length-prefixed byte slice from the buffer starting at the specified offset.
func (p *Page) GetBytes(offset int) []byte {
	length := int(binary.BigEndian.Uint32(p.buffer[offset:]))
	start := offset + 4
	end := start + length
	b := make([]byte, length)
	copy(b, p.buffer[start:end])
	return b
}

// SetBytes writes a byte slice to the buffer starting at the specified offset,
// preceded by its 4-byte length.
func (p *Page) SetBytes(offset int, b []byte) {
	length := len(b)
	binary.BigEndian.PutUint32(p.buffer[offset:], uint32(length))
	start := offset + 4
	copy(p.buffer[start:], b)
}

// GetString retrieves a string from the buffer at the specified offset.
func (p *Page) GetString(offset int) (string, error) {
	b := p.GetBytes(offset)
	if !utf8.Valid(b) {
		return "", errors.New("invalid UTF-8 encoding")
	}
	return string(b), nil
}

// SetString writes a string to the buffer at the specified offset, using the
// length-prefixed byte-string form.
func (p *Page) SetString(offset int, s string) error {
	if !utf8.ValidString(s) {
		return errors.New("string contains invalid UTF-8 characters")
	}
	p.SetBytes(offset, []byte(s))
	return nil
}

// MaxLength calculates the maximum number of bytes required to store a string
// of the given character length: 4 bytes for the length prefix plus the
// worst-case UTF-8 encoding of each character.
func MaxLength(strlen int) int {
	return 4 + strlen*utf8.UTFMax
}

// Contents returns the byte buffer maintained by the Page.
func (p *Page) Contents() []byte {
	return p.buffer
}
