package net

import (
	"net"

	"canvastream/internal/logging"
)

// Origin returns the preferred outgoing IP of this machine. It labels the
// samples a client sends so a collector can tell sessions apart.
func Origin() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet; look at the local interfaces instead.
		return originFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}

func originFallback() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	logging.NewLogger("net").Warn("no non-loopback address found, using 127.0.0.1")
	return "127.0.0.1"
}
