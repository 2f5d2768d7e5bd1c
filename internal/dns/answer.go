package dns

import (
	"encoding/binary"
	"fmt"
)

// Answer section size sanity bounds. The header's 16-bit counts can claim
// up to 65535 entries each; a question needs at least 5 bytes on the wire
// (root name + type + class) and a resource record at least 11 (root name +
// fixed RR header with empty rdata). Counts that cannot physically fit in
// the buffer are rejected before any per-record work.
const (
	minQuestionWireSize = 5
	minRecordWireSize   = 11
)

// RecordView is a non-owning view of one answer-section resource record.
// It carries offsets into the Answer's message buffer rather than copied
// bytes; it is only meaningful for the lifetime of the Answer that produced
// it. Decoding (see decode.go) copies out everything it returns, so decoded
// values are safe to keep after the raw buffer is gone.
type RecordView struct {
	Index    int       // Position within the answer section
	Name     string    // Owner name (decompressed)
	Type     QueryType // Wire record type tag
	Class    QueryClass
	TTL      uint32
	RDataOff int // Offset of the rdata within the message
	RDataLen int // Declared rdata length, verified against message bounds
}

// Answer is a parsed view over one raw DNS response message. It retains the
// message buffer because record views reference it by offset, and because
// SRV rdata contains compressed names that point back into the enclosing
// message.
type Answer struct {
	Header  Header
	Records []RecordView

	msg []byte
}

// ParseAnswer validates a raw DNS response and indexes its answer section.
//
// The buffer must contain at least a full header, and the header's claimed
// section counts must fit inside the buffer; otherwise ErrMalformedMessage.
// Question entries are skipped. Each answer record is located in order; a
// record that cannot be parsed fails with ErrInvalidRecord carrying its
// index, and parsing stops there: record boundaries are interdependent, so
// a corrupt length field invalidates every later offset.
//
// Zero answer records is a success: the resolver legitimately answered with
// an empty section, which callers must distinguish from failure.
func ParseAnswer(msg []byte) (*Answer, error) {
	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return nil, err
	}
	if !h.IsResponse() {
		return nil, fmt.Errorf("%w: QR flag not set (not a response)", ErrMalformedMessage)
	}
	remaining := len(msg) - off
	claimed := int(h.QDCount)*minQuestionWireSize +
		(int(h.ANCount)+int(h.NSCount)+int(h.ARCount))*minRecordWireSize
	if claimed > remaining {
		return nil, fmt.Errorf("%w: header claims %d questions and %d records, exceeding %d remaining bytes",
			ErrMalformedMessage, h.QDCount, int(h.ANCount)+int(h.NSCount)+int(h.ARCount), remaining)
	}

	for i := 0; i < int(h.QDCount); i++ {
		if _, err := ParseQuestion(msg, &off); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedMessage, i, err)
		}
	}

	a := &Answer{Header: h, msg: msg}
	a.Records = make([]RecordView, 0, h.ANCount)
	for i := 0; i < int(h.ANCount); i++ {
		v, err := parseRecordView(msg, &off, i)
		if err != nil {
			return nil, fmt.Errorf("%w %d of DNS answer: %v", ErrInvalidRecord, i, err)
		}
		a.Records = append(a.Records, v)
	}
	return a, nil
}

// Len returns the answer-section record count.
func (a *Answer) Len() int {
	return len(a.Records)
}

// parseRecordView locates the i-th resource record without interpreting its
// rdata. Layout per RFC 1035 Section 4.1.3:
//
//	NAME (compressed) | TYPE(2) | CLASS(2) | TTL(4) | RDLENGTH(2) | RDATA
func parseRecordView(msg []byte, off *int, index int) (RecordView, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return RecordView{}, err
	}
	if *off+10 > len(msg) {
		return RecordView{}, fmt.Errorf("truncated record header")
	}
	v := RecordView{
		Index: index,
		Name:  name,
		Type:  QueryType(binary.BigEndian.Uint16(msg[*off : *off+2])),
		Class: QueryClass(binary.BigEndian.Uint16(msg[*off+2 : *off+4])),
		TTL:   binary.BigEndian.Uint32(msg[*off+4 : *off+8]),
	}
	rdlen := int(binary.BigEndian.Uint16(msg[*off+8 : *off+10]))
	*off += 10
	if *off+rdlen > len(msg) {
		return RecordView{}, fmt.Errorf("rdata length %d exceeds message bounds", rdlen)
	}
	v.RDataOff = *off
	v.RDataLen = rdlen
	*off += rdlen
	return v, nil
}

// rdata returns the raw rdata span of a view. The slice aliases the message
// buffer and must not escape the decode pass.
func (a *Answer) rdata(v RecordView) []byte {
	return a.msg[v.RDataOff : v.RDataOff+v.RDataLen]
}
