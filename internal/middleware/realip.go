package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealIP replaces RemoteAddr with the address from X-Real-IP or X-Forwarded-For,
// but only when the connecting peer is one of the trusted proxies. Any other peer
// keeps its socket address, so clients cannot pick their own rate-limit key.
func RealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if peer, ok := parseAddr(r.RemoteAddr); ok && isTrusted(peer, trusted) {
				if ip, ok := forwardedIP(r, trusted); ok {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the rate-limit key of a request: RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	return r.RemoteAddr
}

func forwardedIP(r *http.Request, trusted []netip.Prefix) (netip.Addr, bool) {
	if raw := strings.TrimSpace(r.Header.Get("X-Real-IP")); raw != "" {
		return parseAddr(raw)
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	// 从右向左跳过受信代理，第一个不受信的地址即访客
	var last netip.Addr
	for i := len(hops) - 1; i >= 0; i-- {
		addr, ok := parseAddr(strings.TrimSpace(hops[i]))
		if !ok {
			break
		}
		last = addr
		if !isTrusted(addr, trusted) {
			return addr, true
		}
	}
	return last, last.IsValid()
}

func parseAddr(raw string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
