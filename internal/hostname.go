package internal

import (
	"fmt"
	"net"
	"net/url"
)

// HostnameService is a registry of the user-facing hostname of the gateway,
// used to construct callback URLs handed to identity providers.
type HostnameService struct {
	hostname string
}

func NewHostnameService(hostname string) *HostnameService {
	return &HostnameService{hostname: hostname}
}

func (s *HostnameService) Hostname() string            { return s.hostname }
func (s *HostnameService) SetHostname(hostname string) { s.hostname = hostname }

// URL returns the gateway URL with the given path.
func (s *HostnameService) URL(path string) string {
	u := url.URL{
		Scheme: "https",
		Host:   s.Hostname(),
		Path:   path,
	}
	return u.String()
}

// NormalizeAddress takes a listening address and converts it into a hostname
// suitable for callback URLs, converting an unspecified IP to a loopback
// address.
func NormalizeAddress(addr *net.TCPAddr) string {
	if addr.IP.IsUnspecified() {
		return fmt.Sprintf("127.0.0.1:%d", addr.Port)
	}
	return fmt.Sprintf("%s:%d", addr.IP.String(), addr.Port)
}
