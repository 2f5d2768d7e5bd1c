// Command oslookup performs one DNS lookup through the OS stub resolver
// configuration and prints the decoded values, one per line.
//
// Usage:
//
//	oslookup -type SRV _mongodb._tcp.cluster0.example.net
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jroosing/osdns"
	"github.com/jroosing/osdns/internal/resolver"
)

func main() {
	var (
		typeName = flag.String("type", "A", "Record type (A, AAAA, CNAME, TXT, SRV)")
		confPath = flag.String("resolv-conf", "", "Alternate resolv.conf path")
		timeout  = flag.Duration("timeout", 10*time.Second, "Overall lookup deadline")
		fallback = flag.Bool("fallback", false, "Retry failed lookups through net.Resolver")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: oslookup [flags] <name>")
		flag.Usage()
		os.Exit(2)
	}
	name := flag.Arg(0)

	qtype, err := osdns.ParseQueryType(*typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oslookup: %v\n", err)
		os.Exit(2)
	}

	runner := osdns.NewRunner(1, nil)
	defer runner.Shutdown()
	if *confPath != "" {
		conf, err := resolver.LoadConfig(*confPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "oslookup: %v\n", err)
			os.Exit(1)
		}
		runner.NewClient = func() (*resolver.Client, error) {
			return resolver.NewWithConfig(conf, nil), nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var values []string
	if *fallback {
		values, err = osdns.NewFallbackResolver(runner, nil, nil).Resolve(ctx, name, qtype)
	} else {
		values, err = runner.Resolve(ctx, name, qtype)
	}
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "oslookup: %v\n", err)
		}
		os.Exit(1)
	}

	if *quiet {
		return
	}
	if len(values) == 0 {
		fmt.Printf("no %s records for %s\n", qtype, name)
		return
	}
	for _, v := range values {
		fmt.Println(v)
	}
}
