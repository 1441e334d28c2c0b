package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// ParseProxies parses trusted proxy entries. Each entry is a CIDR or a
// single address; invalid entries are reported and skipped.
func ParseProxies(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, network, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, network)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			slog.Warn("realip: skipping invalid trusted proxy", "entry", entry)
			continue
		}
		bits := 128
		if v4 := ip.To4(); v4 != nil {
			ip, bits = v4, 32
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// TrustedRealIP replaces RemoteAddr with the client address reported by a
// trusted proxy. Headers from any other peer are ignored, so clients
// cannot spoof their address past the rate limiter.
//
// X-Real-IP wins when valid. Otherwise X-Forwarded-For is walked from the
// right and the first hop that is not itself a trusted proxy is used.
func TrustedRealIP(proxies []string) func(http.Handler) http.Handler {
	trusted := ParseProxies(proxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if contains(trusted, hostIP(r.RemoteAddr)) {
				if ip := forwardedIP(r.Header, trusted); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedIP returns the client address carried by proxy headers, or nil.
func forwardedIP(h http.Header, trusted []*net.IPNet) net.IP {
	if ip := net.ParseIP(strings.TrimSpace(h.Get("X-Real-IP"))); ip != nil {
		return ip
	}

	hops := strings.Split(h.Get("X-Forwarded-For"), ",")
	var last net.IP
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			break
		}
		last = ip
		if !contains(trusted, ip) {
			return ip
		}
	}
	return last
}

// hostIP parses the address part of a host:port string or a bare address.
func hostIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

func contains(nets []*net.IPNet, ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
