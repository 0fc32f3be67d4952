package utils

import (
	"net"
	"net/http"
	"strings"
)

// LoopbackPlaceholder stands in for the client when the request carries no address headers.
// Every such request shares one anonymous identity per target.
const LoopbackPlaceholder = "127.0.0.1"

const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// ExtractClientIP returns the network identifier used for anonymous identities.
//
// Priority order:
// 1. X-Forwarded-For header (first entry, the original client)
// 2. X-Real-IP header (nginx/cloudflare)
// 3. LoopbackPlaceholder
//
// RemoteAddr is deliberately ignored: behind the load balancer it is always the proxy.
func ExtractClientIP(r *http.Request) string {
	if r == nil {
		return LoopbackPlaceholder
	}

	// Format: "client, proxy1, proxy2"
	if xff := r.Header.Get(HeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); isValidIP(clientIP) {
			return clientIP
		}
	}

	if xri := strings.TrimSpace(r.Header.Get(HeaderRealIP)); isValidIP(xri) {
		return xri
	}

	return LoopbackPlaceholder
}

// isValidIP validates if a string is a valid IPv4 or IPv6 address
func isValidIP(ip string) bool {
	if ip == "" {
		return false
	}
	return net.ParseIP(ip) != nil
}

var privateIPBlocks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
)

// IsPrivateIP checks if an IP address is in a private or loopback range
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	for _, block := range privateIPBlocks {
		if block.Contains(parsed) {
			return true
		}
	}

	return parsed.IsLoopback()
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	blocks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		blocks = append(blocks, block)
	}
	return blocks
}
