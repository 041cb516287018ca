// Package iputil enumerates the addresses assigned to local network
// interfaces so callers can decide whether a declared bind address is
// reachable without leaving the host.
package iputil

import (
	"net"
	"sort"
	"sync"
)

var (
	once  sync.Once
	addrs []string
	index map[string]struct{}
)

// Wildcard and loopback forms that always resolve to the local host even when
// no interface carries them explicitly.
var wellKnown = []string{"0.0.0.0", "::", "127.0.0.1", "::1", "localhost"}

func collect() {
	index = make(map[string]struct{})
	for _, known := range wellKnown {
		index[known] = struct{}{}
	}

	ifaceAddrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, addr := range ifaceAddrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil {
				continue
			}
			index[ip.String()] = struct{}{}
		}
	}

	addrs = make([]string, 0, len(index))
	for a := range index {
		addrs = append(addrs, a)
	}
	sort.Strings(addrs)
}

// LocalAddrs returns every address considered local to this host, including
// wildcard and loopback forms. The interface scan runs once per process.
func LocalAddrs() []string {
	once.Do(collect)
	out := make([]string, len(addrs))
	copy(out, addrs)
	return out
}

// IsLocal reports whether the provided address names this host.
func IsLocal(address string) bool {
	once.Do(collect)
	if _, ok := index[address]; ok {
		return true
	}
	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}
	if ip.IsLoopback() || ip.IsUnspecified() {
		return true
	}
	_, ok := index[ip.String()]
	return ok
}
