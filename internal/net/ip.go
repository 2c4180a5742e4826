package net

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
)

// ShareURL returns the link viewers open to watch the board.
func ShareURL(port int) string {
	return fmt.Sprintf("http://%s/", net.JoinHostPort(outgoingIP(), strconv.Itoa(port)))
}

// outgoingIP picks the address of the interface that routes outwards. The
// UDP dial sends nothing. Without a route the first non-loopback IPv4
// interface address is used.
func outgoingIP() string {
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		defer conn.Close()
		return conn.LocalAddr().(*net.UDPAddr).IP.String()
	}

	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, address := range addrs {
			if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	slog.Warn("no suitable local IP found, mirror link may not be reachable", "err", err)
	return "127.0.0.1"
}
