package util

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// ResolveHost turns host into a single numeric IP address.  With noDNS
// only literal IPs are accepted; otherwise the system resolver is used
// and IPv4 results are preferred.
func ResolveHost(ctx context.Context, host string, noDNS bool) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}
	if noDNS {
		return nil, fmt.Errorf("cannot parse %q as an IP address (DNS disabled with -n)", host)
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("DNS lookup for %q: %w", host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("DNS lookup for %q: no addresses", host)
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP, nil
		}
	}
	return addrs[0].IP, nil
}

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
