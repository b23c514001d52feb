package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are consulted in order; the first valid address wins.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client address, preferring proxy headers over RemoteAddr.
// Only use it when the service runs behind a proxy that sets these headers,
// since clients can forge them.
func GetIP(r *http.Request) string {
	for _, h := range proxyHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		if h == "X-Forwarded-For" {
			// "client, proxy1, proxy2": the leftmost entry is the client
			v, _, _ = strings.Cut(v, ",")
		}
		if ip := normalize(v); ip != "" {
			return ip
		}
	}
	return RemoteHost(r)
}

// RemoteHost returns the host part of r.RemoteAddr, normalized when it is an
// IP address. Returns "" when RemoteAddr is empty.
func RemoteHost(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	if ip := normalize(host); ip != "" {
		return ip
	}
	return host
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
