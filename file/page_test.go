package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_IntRoundTrip(t *testing.T) {
	assert := assert.New(t)
	page := NewPage(400)

	page.SetInt(0, 42)
	page.SetInt(100, -7)
	page.SetInt(396, 1<<30)

	assert.Equal(42, page.GetInt(0))
	assert.Equal(-7, page.GetInt(100))
	assert.Equal(1<<30, page.GetInt(396))
}

func TestPage_FloatRoundTrip(t *testing.T) {
	assert := assert.New(t)
	page := NewPage(400)

	page.SetFloat(0, 3.14)
	page.SetFloat(80, -0.5)
	page.SetFloat(160, 0)

	assert.Equal(float32(3.14), page.GetFloat(0))
	assert.Equal(float32(-0.5), page.GetFloat(80))
	assert.Equal(float32(0), page.GetFloat(160))
}

func TestPage_BytesRoundTrip(t *testing.T) {
	assert := assert.New(t)
	page := NewPage(400)

	data := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	page.SetBytes(20, data)
	assert.Equal(data, page.GetBytes(20))

	empty := []byte{}
	page.SetBytes(200, empty)
	assert.Empty(page.GetBytes(200))
}

func TestPage_StringRoundTrip(t *testing.T) {
	assert := assert.New(t)
	page := NewPage(400)

	for offset, s := range map[int]string{
		0:   "hello, world",
		100: "",
		200: "héllo wörld 你好",
	} {
		assert.NoError(page.SetString(offset, s))
		got, err := page.GetString(offset)
		assert.NoError(err)
		assert.Equal(s, got)
	}
}

func TestPage_SetStringRejectsInvalidUTF8(t *testing.T) {
	page := NewPage(400)
	assert.Error(t, page.SetString(0, string([]byte{0xff, 0xfe})))
}

func TestPage_MaxLengthBoundsEncoding(t *testing.T) {
	assert := assert.New(t)

	for _, s := range []string{"", "abc", "你好世界", "héllo"} {
		page := NewPage(400)
		assert.NoError(page.SetString(0, s))
		// The length prefix plus the encoded payload never exceeds
		// the maximum computed from the character count.
		encoded := 4 + len(page.GetBytes(0))
		assert.LessOrEqual(encoded, MaxLength(len([]rune(s))))
	}
}
