// Package resolver issues synchronous DNS queries through the operating
// system's stub resolver configuration and returns raw wire-format answers.
//
// The package performs no interpretation of the answer section beyond
// matching it to the query; decoding belongs to internal/dns. It carries no
// cache, no backoff policy, and no fallback: a lookup either yields the raw
// response bytes or a classified error, and retry policy is the caller's.
package resolver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jroosing/osdns/internal/dns"
	"github.com/jroosing/osdns/internal/helpers"
	"github.com/jroosing/osdns/internal/pool"
)

var (
	// ErrResolverInit indicates resolver state could not be initialized
	// (unreadable system configuration). Not retried internally.
	ErrResolverInit = errors.New("resolver initialization failed")

	// ErrResolutionFailed indicates the query itself failed: NXDOMAIN,
	// SERVFAIL, a transport error, or an unusable response. The wrapped
	// message carries the looked-up name and the underlying reason; no
	// finer distinction is made here.
	ErrResolutionFailed = errors.New("dns resolution failed")
)

// MaxAnswerSize is the receive buffer ceiling for a single answer. A stub
// resolver answer over TCP may be up to 64 KiB; UDP answers are far smaller
// but share the buffer pool.
const MaxAnswerSize = 64 * 1024

// answerBufs pools receive buffers so concurrent lookups don't each
// allocate 64 KiB per query. Responses are always copied out and trimmed to
// their actual length before a buffer goes back to the pool.
var answerBufs = pool.Bytes(MaxAnswerSize)

// errNXDomain drives search-list iteration internally; it never escapes
// Lookup, which converts it to ErrResolutionFailed.
var errNXDomain = errors.New("NXDOMAIN")

// Client performs blocking DNS lookups against the system-configured
// nameservers. Each Client owns its configuration snapshot; concurrent use
// of one Client is safe, but the intended pattern is one Client per lookup
// task so no state is shared between concurrent lookups.
type Client struct {
	conf   *Config
	logger *slog.Logger
	closed atomic.Bool
}

// New creates a Client from the system resolver configuration.
func New(logger *slog.Logger) (*Client, error) {
	conf, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	return NewWithConfig(conf, logger), nil
}

// NewWithConfig creates a Client from an explicit configuration. A nil
// logger disables logging.
func NewWithConfig(conf *Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{conf: conf, logger: logger}
}

// Close releases the client. It is idempotent; lookups after Close fail.
func (c *Client) Close() error {
	c.closed.Store(true)
	return nil
}

// Lookup issues one synchronous query for (name, class, type) and returns
// the raw wire-format answer, sized to the actual response length.
//
// Search-list semantics follow res_nsearch: a name with at least ndots dots
// is tried literally first, then with each search domain appended; a name
// with fewer dots is tried under the search domains first. A trailing dot
// suppresses the search list. NXDOMAIN moves to the next candidate; any
// other failure, or NXDOMAIN on the last candidate, surfaces as
// ErrResolutionFailed.
func (c *Client) Lookup(ctx context.Context, name string, class dns.QueryClass, qtype dns.QueryType) ([]byte, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("%w: client is closed", ErrResolverInit)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrResolutionFailed)
	}

	lastErr := error(nil)
	for _, candidate := range c.searchNames(name) {
		resp, err := c.query(ctx, candidate, class, qtype)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if errors.Is(err, errNXDomain) {
			continue // next search candidate
		}
		break
	}
	return nil, fmt.Errorf("%w: failed to look up %q: %v", ErrResolutionFailed, name, lastErr)
}

// searchNames expands name into the candidate list res_nsearch would try,
// in order.
func (c *Client) searchNames(name string) []string {
	if strings.HasSuffix(name, ".") {
		return []string{strings.TrimSuffix(name, ".")}
	}
	literalFirst := strings.Count(name, ".") >= c.conf.NDots

	out := make([]string, 0, len(c.conf.Search)+1)
	if literalFirst {
		out = append(out, name)
	}
	for _, domain := range c.conf.Search {
		out = append(out, name+"."+strings.TrimSuffix(domain, "."))
	}
	if !literalFirst {
		out = append(out, name)
	}
	return out
}

// query sends one question to the configured nameservers, making Attempts
// rounds over the server list. The first usable response wins.
func (c *Client) query(ctx context.Context, name string, class dns.QueryClass, qtype dns.QueryType) ([]byte, error) {
	q := dns.Question{Name: name, Type: qtype, Class: class}
	id := uint16(rand.Uint32())
	queryBytes, err := buildQuery(id, q)
	if err != nil {
		return nil, err
	}

	lastErr := error(nil)
	for attempt := 0; attempt < c.conf.Attempts; attempt++ {
		for _, server := range c.conf.Servers {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			resp, err := c.exchange(ctx, server, queryBytes)
			if err != nil {
				c.logger.Debug("nameserver exchange failed", "server", server, "name", name, "error", err)
				lastErr = err
				continue
			}
			rcode, err := c.checkResponse(resp, id, q)
			if err != nil {
				lastErr = err
				continue
			}
			switch rcode {
			case dns.RCodeNoError:
				return resp, nil
			case dns.RCodeNXDomain:
				return nil, errNXDomain
			default:
				return nil, fmt.Errorf("server %s returned %s", server, rcode)
			}
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no nameservers configured")
	}
	return nil, lastErr
}

// buildQuery assembles a recursion-desired query message for one question.
func buildQuery(id uint16, q dns.Question) ([]byte, error) {
	qb, err := q.Marshal()
	if err != nil {
		return nil, err
	}
	h := dns.Header{ID: id, Flags: dns.RDFlag, QDCount: 1}
	return append(h.Marshal(), qb...), nil
}

// checkResponse verifies the response belongs to our query: matching
// transaction ID and a question section echoing the name, type, and class.
// Anything else is discarded the way the stub resolver discards strays.
func (c *Client) checkResponse(resp []byte, id uint16, q dns.Question) (dns.RCode, error) {
	off := 0
	h, err := dns.ParseHeader(resp, &off)
	if err != nil {
		return 0, err
	}
	if h.ID != id {
		return 0, fmt.Errorf("transaction ID mismatch: sent %d, got %d", id, h.ID)
	}
	if !h.IsResponse() {
		return 0, errors.New("QR flag not set in response")
	}
	if h.QDCount != 1 {
		return 0, fmt.Errorf("unexpected question count %d in response", h.QDCount)
	}
	rq, err := dns.ParseQuestion(resp, &off)
	if err != nil {
		return 0, err
	}
	if !strings.EqualFold(rq.Name, q.Name) || rq.Type != q.Type || rq.Class != q.Class {
		return 0, fmt.Errorf("response question %s/%s does not match query %s/%s",
			rq.Name, rq.Type, q.Name, q.Type)
	}
	return dns.RCodeFromFlags(h.Flags), nil
}

// exchange performs one UDP round trip, falling back to TCP when the
// response arrives truncated.
func (c *Client) exchange(ctx context.Context, server string, query []byte) ([]byte, error) {
	resp, err := c.exchangeUDP(ctx, server, query)
	if err != nil {
		return nil, err
	}
	off := 0
	h, err := dns.ParseHeader(resp, &off)
	if err != nil {
		return nil, err
	}
	if h.Truncated() {
		c.logger.Debug("truncated UDP answer, retrying over TCP", "server", server)
		return c.exchangeTCP(ctx, server, query)
	}
	return resp, nil
}

func (c *Client) exchangeUDP(ctx context.Context, server string, query []byte) ([]byte, error) {
	d := net.Dialer{Timeout: c.conf.Timeout}
	conn, err := d.DialContext(ctx, "udp", server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if uc, ok := conn.(*net.UDPConn); ok {
		raiseReceiveBuffer(uc)
	}
	if err := conn.SetDeadline(c.deadline(ctx)); err != nil {
		return nil, err
	}

	if _, err := conn.Write(query); err != nil {
		return nil, err
	}

	bufp := answerBufs.Get()
	defer answerBufs.Put(bufp)
	n, err := conn.Read(*bufp)
	if err != nil {
		return nil, err
	}
	resp := make([]byte, n)
	copy(resp, (*bufp)[:n])
	return resp, nil
}

// exchangeTCP performs the query with RFC 1035 section 4.2.2 framing:
// each message is prefixed with a 2-byte big-endian length field.
func (c *Client) exchangeTCP(ctx context.Context, server string, query []byte) ([]byte, error) {
	d := net.Dialer{Timeout: c.conf.Timeout}
	conn, err := d.DialContext(ctx, "tcp", server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if err := conn.SetDeadline(c.deadline(ctx)); err != nil {
		return nil, err
	}

	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], helpers.ClampIntToUint16(len(query)))
	if _, err := conn.Write(prefix[:]); err != nil {
		return nil, err
	}
	if _, err := conn.Write(query); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return nil, err
	}
	respLen := int(binary.BigEndian.Uint16(prefix[:]))
	if respLen == 0 {
		return nil, errors.New("zero-length TCP response")
	}
	resp := make([]byte, respLen)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// deadline combines the per-query timeout with any context deadline,
// whichever is sooner.
func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.conf.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return deadline
}
