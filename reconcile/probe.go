package reconcile

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// DefaultProbeTimeout bounds the connectivity check.
const DefaultProbeTimeout = 5 * time.Second

// Probe checks that a TCP connection to the endpoint's host can be opened.
// Failures wrap ErrUnreachable.
func Probe(ctx context.Context, endpoint string, timeout time.Duration) error {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: invalid endpoint %q", ErrUnreachable, endpoint)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}

	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(u.Hostname(), port))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return conn.Close()
}
