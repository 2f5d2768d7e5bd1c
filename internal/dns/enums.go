package dns

import (
	"fmt"
	"strings"
)

// DNS header flags and masks (RFC 1035 Section 4.1.1)
//
// The DNS header contains a 16-bit flags field with the following layout:
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA| Z|AD|CD|   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
const (
	QRFlag    uint16 = 0x8000 // Query/Response: 1 = response, 0 = query
	TCFlag    uint16 = 0x0200 // Truncation: message was truncated
	RDFlag    uint16 = 0x0100 // Recursion Desired
	RAFlag    uint16 = 0x0080 // Recursion Available
	RCodeMask uint16 = 0x000F // Bits 3-0: response code
)

// QueryType identifies the record types this package can decode.
// The set is closed: adding a type requires a decode branch in decode.go
// and an entry in ParseQueryType.
type QueryType uint16

const (
	TypeA     QueryType = 1  // IPv4 address
	TypeCNAME QueryType = 5  // Canonical name (alias)
	TypeTXT   QueryType = 16 // Text strings
	TypeAAAA  QueryType = 28 // IPv6 address (RFC 3596)
	TypeSRV   QueryType = 33 // Service locator (RFC 2782)
)

// String returns the conventional mnemonic for the query type.
func (t QueryType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeCNAME:
		return "CNAME"
	case TypeTXT:
		return "TXT"
	case TypeAAAA:
		return "AAAA"
	case TypeSRV:
		return "SRV"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// ParseQueryType maps a mnemonic (case-insensitive) to a QueryType.
func ParseQueryType(s string) (QueryType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return TypeA, nil
	case "AAAA":
		return TypeAAAA, nil
	case "CNAME":
		return TypeCNAME, nil
	case "TXT":
		return TypeTXT, nil
	case "SRV":
		return TypeSRV, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
}

// QueryClass identifies the record class. Only the Internet class is
// supported; the others (CH, HS) are museum pieces.
type QueryClass uint16

const (
	ClassIN QueryClass = 1 // Internet class
)

// RCode represents DNS response codes (RFC 1035).
type RCode uint16

const (
	RCodeNoError  RCode = 0 // No error
	RCodeFormErr  RCode = 1 // Format error: query malformed
	RCodeServFail RCode = 2 // Server failure: internal error
	RCodeNXDomain RCode = 3 // Non-existent domain
	RCodeNotImp   RCode = 4 // Not implemented: unsupported query type
	RCodeRefused  RCode = 5 // Query refused by policy
)

// String returns the conventional mnemonic for the response code.
func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	default:
		return fmt.Sprintf("RCODE%d", uint16(r))
	}
}

// RCodeFromFlags extracts the response code from the DNS header flags.
// The RCODE occupies the low 4 bits of the flags field.
func RCodeFromFlags(flags uint16) RCode {
	return RCode(flags & RCodeMask)
}
