package request

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/wsc-dev/wsc/internal/config"
)

const maxRedirects = 10

// newHTTPClient builds the hardened *http.Client used for all vendor
// calls. The overall timeout comes from WSC_API_TIMEOUT; redirects are
// limited in depth, must stay on HTTPS, and may not land on private,
// loopback, or link-local addresses.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: config.GetAPITimeout(),
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: checkRedirect,
	}
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if req.URL.Scheme != "https" {
		return fmt.Errorf("redirect to non-HTTPS URL is not allowed: %s", req.URL)
	}
	if len(via) >= maxRedirects {
		return fmt.Errorf("too many redirects")
	}

	host := req.URL.Hostname()
	if ip := net.ParseIP(host); ip != nil {
		return validateIP(ip, host)
	}

	// Resolve the hostname and check every resulting address so a DNS
	// answer cannot steer a redirect at internal infrastructure.
	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("failed to resolve redirect host %s: %w", host, err)
	}
	for _, ip := range ips {
		if err := validateIP(ip, host); err != nil {
			return fmt.Errorf("refusing redirect: %s resolves to blocked IP %s", host, ip)
		}
	}
	return nil
}

// validateIP rejects redirect targets in private, loopback, link-local,
// multicast, or unspecified ranges.
func validateIP(ip net.IP, host string) error {
	switch {
	case ip.IsPrivate():
		return fmt.Errorf("refusing redirect to private IP: %s (%s)", host, ip)
	case ip.IsLoopback():
		return fmt.Errorf("refusing redirect to loopback IP: %s (%s)", host, ip)
	case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
		return fmt.Errorf("refusing redirect to link-local IP: %s (%s)", host, ip)
	case ip.IsMulticast():
		return fmt.Errorf("refusing redirect to multicast IP: %s (%s)", host, ip)
	case ip.IsUnspecified():
		return fmt.Errorf("refusing redirect to unspecified IP: %s (%s)", host, ip)
	}
	return nil
}
