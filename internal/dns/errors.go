// Package dns decodes DNS answer messages from wire format (RFC 1035).
//
// The package is deliberately one-directional: it parses responses produced
// by a stub resolver and extracts typed record values. Query construction is
// limited to what the resolver client needs (header, question, name
// encoding). It is not a general-purpose DNS message library.
//
// Error Handling:
//
// Each failure class has a sentinel error below. Errors are wrapped with
// context using fmt.Errorf("%w: ...", Err...) so callers can classify them
// with errors.Is while still seeing the offending record index and reason.
package dns

import "errors"

var (
	// ErrMalformedMessage indicates the response buffer is not a parseable
	// DNS message (too short, or header counts inconsistent with its size).
	ErrMalformedMessage = errors.New("malformed dns message")

	// ErrInvalidRecord indicates a resource record entry in the answer
	// section could not be parsed or decoded. The wrapped message carries
	// the record's index within the answer section.
	ErrInvalidRecord = errors.New("invalid dns record")

	// ErrInvalidName indicates a wire-format domain name is malformed:
	// a compression pointer escapes its allowed window, expansion exceeds
	// the scratch budget, or a label is truncated.
	ErrInvalidName = errors.New("invalid dns name")

	// ErrUnsupportedType indicates a query type outside the supported set
	// {A, AAAA, CNAME, TXT, SRV}.
	ErrUnsupportedType = errors.New("unsupported dns query type")
)
