package net

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	serviceType = "_localboard._tcp"
	framesPath  = "/frames"
)

// mirrorService describes a mirror listening on port. Domain and host name
// are left for mdns to fill in, as are the addresses when ips is empty.
func mirrorService(port int, ips []net.IP) (*mdns.MDNSService, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("mdns: hostname: %w", err)
	}
	txt := []string{"LocalBoard mirror", "path=" + framesPath}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, ips, txt)
	if err != nil {
		return nil, fmt.Errorf("mdns: describe mirror on %d: %w", port, err)
	}
	return service, nil
}

// Advertise announces the mirror on the local network. The caller shuts the
// returned server down.
func Advertise(port int) (*mdns.Server, error) {
	service, err := mirrorService(port, nil)
	if err != nil {
		return nil, err
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns: serve: %w", err)
	}
	return server, nil
}

// Discover lists the share URLs of the mirrors that answer within timeout.
func Discover(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var urls []string
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			urls = append(urls, fmt.Sprintf("http://%s:%d/", e.AddrV4, e.Port))
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-collected
	if err != nil {
		return urls, fmt.Errorf("mdns: lookup %s: %w", serviceType, err)
	}
	return urls, nil
}
