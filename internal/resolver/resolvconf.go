package resolver

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultConfigPath is where the system stub resolver configuration lives.
const DefaultConfigPath = "/etc/resolv.conf"

// Config defaults matching libresolv behavior.
const (
	defaultNDots    = 1
	defaultTimeout  = 5 * time.Second
	defaultAttempts = 2
	maxNameservers  = 3 // libresolv's MAXNS
)

// Config is the resolver state a Client owns: the system stub resolver
// configuration it queries through.
type Config struct {
	Servers  []string      // Nameserver addresses as host:port
	Search   []string      // Search domains applied per the ndots rule
	NDots    int           // Minimum dots before the literal name is tried first
	Timeout  time.Duration // Per-query timeout
	Attempts int           // Rounds over the server list before giving up
}

// LoadConfig reads resolver configuration in resolv.conf(5) format.
// An empty path means DefaultConfigPath.
//
// Recognized directives: nameserver, search, domain, options (ndots,
// timeout, attempts). Everything else is ignored, as the system resolver
// does. A file with no nameserver entries falls back to localhost, matching
// libresolv. An unreadable file is an initialization failure.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolverInit, err)
	}
	defer f.Close()

	conf := &Config{
		NDots:    defaultNDots,
		Timeout:  defaultTimeout,
		Attempts: defaultAttempts,
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexAny(line, "#;"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "nameserver":
			if len(fields) >= 2 && len(conf.Servers) < maxNameservers {
				conf.Servers = append(conf.Servers, net.JoinHostPort(fields[1], "53"))
			}
		case "search":
			conf.Search = fields[1:]
		case "domain":
			if len(fields) >= 2 {
				conf.Search = []string{fields[1]}
			}
		case "options":
			parseOptions(conf, fields[1:])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolverInit, err)
	}

	if len(conf.Servers) == 0 {
		conf.Servers = []string{net.JoinHostPort("127.0.0.1", "53")}
	}
	return conf, nil
}

func parseOptions(conf *Config, opts []string) {
	for _, opt := range opts {
		k, v, _ := strings.Cut(opt, ":")
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			continue
		}
		switch k {
		case "ndots":
			conf.NDots = n
		case "timeout":
			conf.Timeout = time.Duration(n) * time.Second
		case "attempts":
			if n > 0 {
				conf.Attempts = n
			}
		}
	}
}
