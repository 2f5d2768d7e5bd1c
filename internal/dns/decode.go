package dns

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Decode extracts the canonical textual value of one answer record.
//
// Dispatch follows the query type the caller originally asked for, not the
// type tag on the wire record. A stub resolver's answer section is expected
// to match the question, and decoding by requested type keeps a mismatched
// or garbage record from being silently misinterpreted.
//
// The returned string owns its bytes: nothing in it references the message
// buffer, so it remains valid after the Answer is discarded.
func (a *Answer) Decode(v RecordView, qt QueryType) (string, error) {
	var (
		s   string
		err error
	)
	switch qt {
	case TypeA:
		s, err = a.decodeA(v)
	case TypeAAAA:
		s, err = a.decodeAAAA(v)
	case TypeCNAME:
		s, err = a.decodeCNAME(v)
	case TypeTXT:
		s, err = a.decodeTXT(v)
	case TypeSRV:
		s, err = a.decodeSRV(v)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, qt)
	}
	if err != nil {
		return "", fmt.Errorf("%w %d of DNS answer: %v", ErrInvalidRecord, v.Index, err)
	}
	return s, nil
}

// DecodeAll decodes every record in answer-section order. Any per-record
// failure aborts the whole pass: a corrupt record means the response cannot
// be trusted, so no partial results are returned. The result slice is empty
// (non-nil) for zero-answer responses.
func (a *Answer) DecodeAll(qt QueryType) ([]string, error) {
	out := make([]string, 0, len(a.Records))
	for _, v := range a.Records {
		s, err := a.Decode(v, qt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// decodeA formats 4-byte rdata as dotted-decimal IPv4 text.
func (a *Answer) decodeA(v RecordView) (string, error) {
	d := a.rdata(v)
	if len(d) != 4 {
		return "", fmt.Errorf("A rdata must be 4 bytes, got %d", len(d))
	}
	return fmt.Sprintf("%d.%d.%d.%d", d[0], d[1], d[2], d[3]), nil
}

// decodeAAAA formats 16-byte rdata as eight colon-separated 4-hex-digit
// groups, lowercase. Zero-run compression (::) is intentionally not applied;
// callers wanting canonical RFC 5952 text can re-parse with net/netip.
func (a *Answer) decodeAAAA(v RecordView) (string, error) {
	d := a.rdata(v)
	if len(d) != 16 {
		return "", fmt.Errorf("AAAA rdata must be 16 bytes, got %d", len(d))
	}
	var b strings.Builder
	b.Grow(39) // 8 groups of 4 + 7 colons
	for i := 0; i < 16; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02x%02x", d[i], d[i+1])
	}
	return b.String(), nil
}

// decodeCNAME reads the single leading character-string of the rdata, the
// same shape decodeTXT reads per segment.
func (a *Answer) decodeCNAME(v RecordView) (string, error) {
	d := a.rdata(v)
	s, _, err := readCharString(d)
	if err != nil {
		return "", err
	}
	return s, nil
}

// decodeTXT decodes all character-strings in the rdata and concatenates
// them. TXT rdata is legally a sequence of length-prefixed segments
// (RFC 1035 Section 3.3.14); most records carry one, but long values are
// split at 255 bytes and belong together.
func (a *Answer) decodeTXT(v RecordView) (string, error) {
	segs, err := txtSegments(a.rdata(v))
	if err != nil {
		return "", err
	}
	return strings.Join(segs, ""), nil
}

// DecodeTXTSegments returns the ordered character-string segments of a TXT
// record without joining them.
func (a *Answer) DecodeTXTSegments(v RecordView) ([]string, error) {
	segs, err := txtSegments(a.rdata(v))
	if err != nil {
		return nil, fmt.Errorf("%w %d of DNS answer: %v", ErrInvalidRecord, v.Index, err)
	}
	return segs, nil
}

// decodeSRV decodes SRV rdata (RFC 2782):
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+
//	|   PRIORITY  |    WEIGHT   |  PORT |   three 16-bit big-endian fields
//	+--+--+--+--+--+--+--+--+--+--+--+--+
//	/                TARGET              /  possibly-compressed domain name
//	+--+--+--+--+--+--+--+--+--+--+--+--+
//
// The target name may contain compression pointers back into the enclosing
// message, so it is decoded against the full message buffer, not the rdata
// span alone. Output is "target:port,prio=P,weight=W".
func (a *Answer) decodeSRV(v RecordView) (string, error) {
	d := a.rdata(v)
	if len(d) < 6 {
		return "", fmt.Errorf("SRV rdata must be at least 6 bytes, got %d", len(d))
	}
	priority := binary.BigEndian.Uint16(d[0:2])
	weight := binary.BigEndian.Uint16(d[2:4])
	port := binary.BigEndian.Uint16(d[4:6])

	nameOff := v.RDataOff + 6
	name, err := DecodeName(a.msg, &nameOff)
	if err != nil {
		return "", fmt.Errorf("invalid SRV target: %v", err)
	}
	return fmt.Sprintf("%s:%d,prio=%d,weight=%d", name, port, priority, weight), nil
}

// readCharString reads one length-prefixed character-string: first byte N,
// followed by at least N bytes. Returns the string and the bytes consumed.
func readCharString(d []byte) (string, int, error) {
	if len(d) == 0 {
		return "", 0, fmt.Errorf("empty character-string rdata")
	}
	n := int(d[0])
	if n > len(d)-1 {
		return "", 0, fmt.Errorf("character-string length %d exceeds %d remaining bytes", n, len(d)-1)
	}
	return string(d[1 : 1+n]), 1 + n, nil
}

// txtSegments reads consecutive character-strings until the rdata is
// exhausted.
func txtSegments(d []byte) ([]string, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("empty TXT rdata")
	}
	var segs []string
	for len(d) > 0 {
		s, consumed, err := readCharString(d)
		if err != nil {
			return nil, err
		}
		segs = append(segs, s)
		d = d[consumed:]
	}
	return segs, nil
}
