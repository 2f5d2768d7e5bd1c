package osdns

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
)

// NetResolver is the subset of net.Resolver the fallback path uses. It is
// satisfied by net.DefaultResolver.
type NetResolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
}

// FallbackResolver retries failed native lookups through an alternate
// resolution source (by default Go's net.Resolver). It is glue over the
// core entry point: the native path is always tried first, and the fallback
// engages only when it fails for a reason other than the caller's own
// context expiring.
//
// Fallback results are formatted to the same shapes the native decoder
// emits, except that IPv6 text comes back in the standard compressed
// notation rather than the decoder's fixed eight-group form.
type FallbackResolver struct {
	runner *Runner
	net    NetResolver
	logger *slog.Logger
}

// NewFallbackResolver wraps runner. A nil nr uses net.DefaultResolver; a
// nil logger disables logging.
func NewFallbackResolver(runner *Runner, nr NetResolver, logger *slog.Logger) *FallbackResolver {
	if nr == nil {
		nr = net.DefaultResolver
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FallbackResolver{runner: runner, net: nr, logger: logger}
}

// Resolve performs a native lookup and, on failure, retries through the
// alternate source.
func (f *FallbackResolver) Resolve(ctx context.Context, name string, qtype QueryType) ([]string, error) {
	values, err := f.runner.Resolve(ctx, name, qtype)
	if err == nil {
		return values, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	f.logger.Debug("native lookup failed, retrying through net.Resolver", "name", name, "type", qtype.String(), "error", err)
	return f.netResolve(ctx, name, qtype)
}

func (f *FallbackResolver) netResolve(ctx context.Context, name string, qtype QueryType) ([]string, error) {
	switch qtype {
	case TypeA:
		return f.lookupIPs(ctx, "ip4", name)
	case TypeAAAA:
		return f.lookupIPs(ctx, "ip6", name)
	case TypeCNAME:
		cname, err := f.net.LookupCNAME(ctx, name)
		if err != nil {
			return nil, err
		}
		return []string{strings.TrimSuffix(cname, ".")}, nil
	case TypeTXT:
		return f.net.LookupTXT(ctx, name)
	case TypeSRV:
		_, srvs, err := f.net.LookupSRV(ctx, "", "", name)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(srvs))
		for _, s := range srvs {
			out = append(out, fmt.Sprintf("%s:%d,prio=%d,weight=%d",
				strings.TrimSuffix(s.Target, "."), s.Port, s.Priority, s.Weight))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, qtype)
	}
}

func (f *FallbackResolver) lookupIPs(ctx context.Context, network, name string) ([]string, error) {
	ips, err := f.net.LookupIP(ctx, network, name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		out = append(out, ip.String())
	}
	return out, nil
}
