package dns

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// maxExpandedNameLen caps the total expanded length of a decompressed name.
// libresolv's dn_expand callers conventionally reserve an 8 KiB scratch
// buffer; the same ceiling is used here. Any compression chain that produces
// more output than this is hostile and is rejected.
const maxExpandedNameLen = 8192

// maxEncodedNameLen is the RFC 1035 limit on an encoded name.
const maxEncodedNameLen = 255

// maxLabelLen is the RFC 1035 limit on a single label.
const maxLabelLen = 63

// EncodeName encodes a domain name to DNS wire format (RFC 1035 Section 3.1).
//
// DNS names are encoded as a sequence of labels, where each label is:
//   - 1 byte: length (0-63)
//   - N bytes: label characters
//
// The name is terminated by a zero-length label (single 0x00 byte).
//
// Example: "example.org" encodes as:
//
//	[7]example[3]org[0]
//	0x07 'e' 'x' 'a' 'm' 'p' 'l' 'e' 0x03 'o' 'r' 'g' 0x00
//
// Constraints: each label max 63 bytes, total encoded name max 255 bytes,
// ASCII only (no IDN/punycode handled here). Queries are never compressed.
func EncodeName(domain string) ([]byte, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: name must be non-empty", ErrInvalidName)
	}
	domain = trimDot(domain)
	if domain == "" {
		return []byte{0}, nil // Root domain
	}

	out := make([]byte, 0, len(domain)+2)
	labelStart := 0
	for i := 0; i <= len(domain); i++ {
		if i == len(domain) || domain[i] == '.' {
			if i == labelStart {
				return nil, fmt.Errorf("%w: empty label in %q", ErrInvalidName, domain)
			}
			label := domain[labelStart:i]

			for j := 0; j < len(label); j++ {
				if label[j] > 0x7F {
					return nil, fmt.Errorf("%w: name must be ASCII", ErrInvalidName)
				}
			}
			if len(label) > maxLabelLen {
				return nil, fmt.Errorf("%w: label too long (%d > %d): %q", ErrInvalidName, len(label), maxLabelLen, label)
			}

			out = append(out, byte(len(label)))
			out = append(out, label...)
			labelStart = i + 1
		}
	}
	out = append(out, 0) // Terminating zero-length label

	if len(out) > maxEncodedNameLen {
		return nil, fmt.Errorf("%w: encoded name too long (%d > %d)", ErrInvalidName, len(out), maxEncodedNameLen)
	}
	return out, nil
}

// DecodeName decodes a possibly-compressed DNS name from wire format.
//
// DNS name compression (RFC 1035 Section 4.1.4) uses pointers to reduce
// message size. A compression pointer is identified by the two high bits
// of a label length byte being set (11xxxxxx pattern = 0xC0).
//
// The pointer value is a 14-bit offset from the start of the message:
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	| 1  1|                OFFSET                   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//
// This function reads from msg starting at *off, advancing *off past the
// encoded name (including any compression pointer bytes).
//
// Compression is resolved by an iterative walk with two hard bounds:
//
//   - A pointer found at byte position p may only target [0, p): strictly
//     backward within the same message. A forward or self pointer is
//     rejected outright, which closes the door on forward-reference
//     exploits. Pure pointer-to-pointer chains therefore strictly decrease
//     and must terminate.
//   - The expanded output is capped at maxExpandedNameLen. A crafted
//     label/pointer cycle emits at least one byte per revisit, so the cap
//     also bounds mixed chains.
//
// Returns an ASCII, dot-separated name without a trailing dot.
func DecodeName(msg []byte, off *int) (string, error) {
	if *off < 0 || *off >= len(msg) {
		return "", fmt.Errorf("%w: name offset outside message", ErrInvalidName)
	}

	var b strings.Builder
	pos := *off
	endOff := -1 // offset just past the name in the original stream, once known

	for {
		if pos >= len(msg) {
			return "", fmt.Errorf("%w: unexpected EOF while decoding name", ErrInvalidName)
		}
		labelLen := msg[pos]

		// Zero-length label marks end of name.
		if labelLen == 0 {
			if endOff < 0 {
				endOff = pos + 1
			}
			break
		}

		// Compression pointer (high 2 bits = 11).
		if labelLen&0xC0 == 0xC0 {
			if pos+1 >= len(msg) {
				return "", fmt.Errorf("%w: unexpected EOF in compression pointer", ErrInvalidName)
			}
			target := int(binary.BigEndian.Uint16(msg[pos:pos+2]) & 0x3FFF)
			if target >= pos {
				return "", fmt.Errorf("%w: compression pointer at %d targets %d (must point strictly backward)", ErrInvalidName, pos, target)
			}
			if endOff < 0 {
				endOff = pos + 2
			}
			pos = target
			continue
		}

		// Reserved label types (01xxxxxx, 10xxxxxx) per RFC 1035.
		if labelLen&0xC0 != 0 {
			return "", fmt.Errorf("%w: reserved label type bits set", ErrInvalidName)
		}

		// Regular label.
		if pos+1+int(labelLen) > len(msg) {
			return "", fmt.Errorf("%w: unexpected EOF while reading label", ErrInvalidName)
		}
		label := msg[pos+1 : pos+1+int(labelLen)]
		for _, c := range label {
			if c > 0x7F {
				return "", fmt.Errorf("%w: decoded name was not ASCII", ErrInvalidName)
			}
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.Write(label)
		if b.Len() > maxExpandedNameLen {
			return "", fmt.Errorf("%w: expanded name exceeds %d bytes", ErrInvalidName, maxExpandedNameLen)
		}
		pos += 1 + int(labelLen)
	}

	*off = endOff
	return b.String(), nil
}

// trimDot removes all trailing dots from a string.
func trimDot(s string) string {
	for len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
