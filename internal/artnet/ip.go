package artnet

import (
	"fmt"
	"net"
)

// FindArtNetIP finds the first IPv4 interface address inside network.
func FindArtNetIP(network string) (net.IP, error) {
	_, cidrNet, err := net.ParseCIDR(network)
	if err != nil {
		return nil, fmt.Errorf("bad art-net network %q: %w", network, err)
	}

	address, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("error getting ips: %w", err)
	}

	return matchIP(cidrNet, address), nil
}

func matchIP(cidrNet *net.IPNet, address []net.Addr) net.IP {
	for _, addr := range address {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.To4() == nil {
			continue
		}

		if cidrNet.Contains(ipNet.IP) {
			return ipNet.IP
		}
	}
	return nil
}
