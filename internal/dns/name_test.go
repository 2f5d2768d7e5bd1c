package dns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeName(t *testing.T) {
	b, err := EncodeName("example.org")
	require.NoError(t, err)
	exp := []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'o', 'r', 'g', 0}
	assert.Equal(t, exp, b)
}

func TestEncodeName_TrailingDot(t *testing.T) {
	b, err := EncodeName("example.org.")
	require.NoError(t, err)
	exp := []byte{7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'o', 'r', 'g', 0}
	assert.Equal(t, exp, b)
}

func TestEncodeName_Root(t *testing.T) {
	b, err := EncodeName(".")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, b)
}

func TestEncodeName_Errors(t *testing.T) {
	tests := []struct {
		name   string
		domain string
	}{
		{"empty", ""},
		{"empty label", "foo..bar"},
		{"non-ascii", "exämple.org"},
		{"label too long", strings.Repeat("a", 64) + ".org"},
		{"name too long", strings.Repeat("abcdefgh.", 32) + "org"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeName(tt.domain)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestDecodeName_Uncompressed(t *testing.T) {
	msg := []byte{3, 'w', 'w', 'w', 7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0}
	off := 0
	n, err := DecodeName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", n)
	assert.Equal(t, len(msg), off)
}

func TestDecodeName_Root(t *testing.T) {
	msg := []byte{0, 0xFF}
	off := 0
	n, err := DecodeName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "", n)
	assert.Equal(t, 1, off)
}

func TestDecodeName_CompressedBackward(t *testing.T) {
	// "example.org" at offset 0, then "www" + pointer to offset 0 at 13.
	msg := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'o', 'r', 'g', 0,
		3, 'w', 'w', 'w', 0xC0, 0x00,
	}
	off := 13
	n, err := DecodeName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "www.example.org", n)
	// The offset advances past the pointer, not past the expansion.
	assert.Equal(t, 19, off)
}

func TestDecodeName_ForwardPointerRejected(t *testing.T) {
	// Pointer at offset 0 targeting offset 2 (forward).
	msg := []byte{0xC0, 0x02, 3, 'f', 'o', 'o', 0}
	off := 0
	_, err := DecodeName(msg, &off)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDecodeName_SelfPointerRejected(t *testing.T) {
	msg := []byte{3, 'f', 'o', 'o', 0xC0, 0x04}
	off := 4
	_, err := DecodeName(msg, &off)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDecodeName_LabelPointerCycleHitsBudget(t *testing.T) {
	// Label "a" at 0, pointer at 2 back to 0: expands "a.a.a..." forever.
	// The expansion budget must cut it off.
	msg := []byte{1, 'a', 0xC0, 0x00}
	off := 2
	_, err := DecodeName(msg, &off)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestDecodeName_ReservedLabelBits(t *testing.T) {
	msg := []byte{0x40, 'x', 0}
	off := 0
	_, err := DecodeName(msg, &off)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDecodeName_Truncated(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
	}{
		{"cut mid-label", []byte{3, 'w', 'w'}},
		{"no terminator", []byte{3, 'w', 'w', 'w'}},
		{"cut mid-pointer", []byte{0xC0}},
		{"offset past end", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := 0
			_, err := DecodeName(tt.msg, &off)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestDecodeName_PointerChainStrictlyBackward(t *testing.T) {
	// ptr(8) -> "org" at 4... build: "org" at 0, "example" can't fit; keep
	// it simple: name at 4 is ptr to 0 where "foo" lives.
	msg := []byte{
		3, 'f', 'o', 'o', 0,
		0xC0, 0x00,
	}
	off := 5
	n, err := DecodeName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "foo", n)
	assert.Equal(t, 7, off)
}
