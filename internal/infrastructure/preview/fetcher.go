// Package preview fetches a submitted book link and extracts its OpenGraph metadata
// so the submit form can be prefilled.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"booknest/internal/shared"
	"booknest/pkg/logger"
)

const maxRedirects = 5

var errBlockedHost = errors.New("dial to non-public address blocked")

// Ranges ip.IsPrivate and friends do not cover
var reservedBlocks = mustParseCIDRs(
	"0.0.0.0/8",     // "this network"
	"100.64.0.0/10", // carrier-grade NAT
	"192.0.0.0/24",  // IETF protocol assignments
	"198.18.0.0/15", // benchmarking
	"fec0::/10",     // deprecated site-local
)

// Metadata is what the submit form can prefill from a link
type Metadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SiteName    string `json:"site_name"`
}

type Config struct {
	Timeout           time.Duration
	UserAgent         string
	MaxBytes          int
	AllowPrivateHosts bool
}

type Fetcher struct {
	client   *resty.Client
	maxBytes int64
	allowLAN bool
}

func NewFetcher(cfg Config) *Fetcher {
	maxBytes := int64(cfg.MaxBytes)
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}

	f := &Fetcher{
		maxBytes: maxBytes,
		allowLAN: cfg.AllowPrivateHosts,
	}

	// The address is checked after DNS resolution, on the socket actually dialed,
	// so a host cannot resolve public for a pre-check and private for the connection
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if !f.allowLAN {
		dialer.Control = controlDial
	}

	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	f.client = resty.New().
		SetTransport(transport).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetRedirectPolicy(
			resty.FlexibleRedirectPolicy(maxRedirects),
			resty.RedirectPolicyFunc(f.checkRedirect),
		)

	return f
}

// checkRedirect re-applies the URL check to every redirect hop; the dialer guards the address
func (f *Fetcher) checkRedirect(req *http.Request, _ []*http.Request) error {
	_, err := f.checkURL(req.URL.String())
	return err
}

// controlDial refuses sockets to non-public addresses
func controlDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return errBlockedHost
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublic(ip) {
		return errBlockedHost
	}
	return nil
}

// Fetch downloads rawURL and parses its metadata. Unreachable or non-HTML links are
// validation errors: the caller submitted a link we cannot use.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	target, err := f.checkURL(rawURL)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(target.String())
	if err != nil {
		if errors.Is(err, errBlockedHost) {
			return nil, shared.NewValidationError("url must point to a public host")
		}
		var appErr *shared.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		logger.Warn("link preview fetch failed", map[string]interface{}{
			"host":  target.Host,
			"error": err.Error(),
		})
		return nil, shared.NewValidationError("Could not reach the link")
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, shared.NewValidationError(fmt.Sprintf("Link returned status %d", resp.StatusCode()))
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, shared.NewValidationError("Link is not an HTML page")
	}

	// Redirects may have moved us; resolve relative image URLs against the final page
	base := target
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		base = resp.RawResponse.Request.URL
	}

	meta, err := Parse(io.LimitReader(body, f.maxBytes), base)
	if err != nil {
		return nil, shared.NewValidationError("Could not read the link")
	}
	return meta, nil
}

// checkURL accepts absolute http(s) URLs. Literal non-public IPs are rejected here;
// hostnames are checked by the dialer once resolved.
func (f *Fetcher) checkURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, shared.NewValidationError("url must be an absolute http(s) URL")
	}

	if f.allowLAN {
		return u, nil
	}

	if ip := net.ParseIP(u.Hostname()); ip != nil && !isPublic(ip) {
		return nil, shared.NewValidationError("url must point to a public host")
	}
	return u, nil
}

func isPublic(ip net.IP) bool {
	if ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified() {
		return false
	}
	for _, block := range reservedBlocks {
		if block.Contains(ip) {
			return false
		}
	}
	return true
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
