// Package osdns resolves DNS names through the operating system's stub
// resolver configuration and decodes raw wire-format answers into typed
// textual values.
//
// The caller-facing surface is asynchronous: a lookup is scheduled onto a
// worker separate from the caller's goroutine, the blocking network round
// trip and answer decoding happen there, and the result is delivered exactly
// once through a callback or collected through the future-style Resolve
// helpers. Concurrent lookups are independent; each task owns its own
// resolver state and answer buffer.
//
// Supported record types are A, AAAA, CNAME, TXT, and SRV, Internet class
// only. Decoded values are plain strings in answer-section order:
// dotted-decimal IPv4, uncompressed lowercase IPv6 groups, text record
// contents, and "target:port,prio=P,weight=W" service tuples.
//
// A lookup either fully succeeds (possibly with an empty value list, when
// the answer section is legitimately empty) or fully fails with the first
// error encountered. There is no partial result, no internal retry, and no
// cancellation of a task once scheduled.
package osdns

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jroosing/osdns/internal/dns"
	"github.com/jroosing/osdns/internal/resolver"
)

// Query type and class constants re-exported for callers.
type (
	QueryType  = dns.QueryType
	QueryClass = dns.QueryClass
)

const (
	TypeA     = dns.TypeA
	TypeAAAA  = dns.TypeAAAA
	TypeCNAME = dns.TypeCNAME
	TypeTXT   = dns.TypeTXT
	TypeSRV   = dns.TypeSRV

	ClassIN = dns.ClassIN
)

// ParseQueryType maps a mnemonic such as "AAAA" to its QueryType.
func ParseQueryType(s string) (QueryType, error) {
	return dns.ParseQueryType(s)
}

// Sentinel errors re-exported for classification with errors.Is.
var (
	ErrResolverInit     = resolver.ErrResolverInit
	ErrResolutionFailed = resolver.ErrResolutionFailed
	ErrMalformedMessage = dns.ErrMalformedMessage
	ErrInvalidRecord    = dns.ErrInvalidRecord
	ErrInvalidName      = dns.ErrInvalidName
	ErrUnsupportedType  = dns.ErrUnsupportedType
)

var defaultRunner = sync.OnceValue(func() *Runner {
	return NewRunner(0, slog.Default())
})

// DefaultRunner returns the shared process-wide runner, creating it on
// first use.
func DefaultRunner() *Runner {
	return defaultRunner()
}

// Lookup schedules an asynchronous lookup on the default runner. See
// Runner.Lookup.
func Lookup(name string, class QueryClass, qtype QueryType, cb Callback) (*Task, error) {
	return defaultRunner().Lookup(name, class, qtype, cb)
}

// Resolve performs a lookup on the default runner and waits for its result.
// See Runner.Resolve.
func Resolve(ctx context.Context, name string, qtype QueryType) ([]string, error) {
	return defaultRunner().Resolve(ctx, name, qtype)
}

// ResolveA resolves IPv4 addresses for name.
func ResolveA(ctx context.Context, name string) ([]string, error) {
	return Resolve(ctx, name, TypeA)
}

// ResolveAAAA resolves IPv6 addresses for name, formatted as eight
// lowercase hex groups without zero compression.
func ResolveAAAA(ctx context.Context, name string) ([]string, error) {
	return Resolve(ctx, name, TypeAAAA)
}

// ResolveCNAME resolves the canonical-name records for name.
func ResolveCNAME(ctx context.Context, name string) ([]string, error) {
	return Resolve(ctx, name, TypeCNAME)
}

// ResolveTXT resolves the text records for name.
func ResolveTXT(ctx context.Context, name string) ([]string, error) {
	return Resolve(ctx, name, TypeTXT)
}

// ResolveSRV resolves the service records for name as
// "target:port,prio=P,weight=W" tuples.
func ResolveSRV(ctx context.Context, name string) ([]string, error) {
	return Resolve(ctx, name, TypeSRV)
}
