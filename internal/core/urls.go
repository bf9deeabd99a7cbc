package core

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// ParseTarget validates a decoded URL string and derives its origin.
// The string must parse as an absolute URL with a scheme and a host;
// reachability is not checked here.
func ParseTarget(raw string) (*TargetURL, error) {
	if raw == "" {
		return nil, ErrMissingURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Opaque != "" || u.Hostname() == "" {
		return nil, ErrInvalidURL
	}

	return &TargetURL{
		Key:    raw,
		Origin: origin(u),
	}, nil
}

// origin serializes scheme://host[:port] with the host in ASCII form and
// default ports dropped.
func origin(u *url.URL) string {
	host := u.Hostname()
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			host = "[" + host + "]"
		}
	} else if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	} else {
		host = strings.ToLower(host)
	}

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return u.Scheme + "://" + host
}
