// Copyright (c) 2025 Berik Ashimov

package main

import (
	"fmt"
	"math/big"
	"net/netip"
	"strconv"

	"go4.org/netipx"
)

type IPv4SubnetResult struct {
	Address     string `json:"address" yaml:"address"`
	CIDR        string `json:"cidr" yaml:"cidr"`
	Prefix      int    `json:"prefix" yaml:"prefix"`
	Netmask     string `json:"netmask" yaml:"netmask"`
	Wildcard    string `json:"wildcard" yaml:"wildcard"`
	Network     string `json:"network" yaml:"network"`
	Broadcast   string `json:"broadcast" yaml:"broadcast"`
	FirstHost   string `json:"first_host" yaml:"first_host"`
	LastHost    string `json:"last_host" yaml:"last_host"`
	HostCount   uint64 `json:"host_count" yaml:"host_count"`
	IsPrivate   bool   `json:"is_private" yaml:"is_private"`
	IsLoopback  bool   `json:"is_loopback" yaml:"is_loopback"`
	IsLinkLocal bool   `json:"is_link_local" yaml:"is_link_local"`
	IsMulticast bool   `json:"is_multicast" yaml:"is_multicast"`
}

type IPv6SubnetResult struct {
	Address         string `json:"address" yaml:"address"`
	CIDR            string `json:"cidr" yaml:"cidr"`
	Prefix          int    `json:"prefix" yaml:"prefix"`
	Network         string `json:"network" yaml:"network"`
	NetworkExpanded string `json:"network_expanded" yaml:"network_expanded"`
	FirstAddress    string `json:"first_address" yaml:"first_address"`
	LastAddress     string `json:"last_address" yaml:"last_address"`
	HostBits        int    `json:"host_bits" yaml:"host_bits"`
	TotalAddresses  string `json:"total_addresses" yaml:"total_addresses"`
	SolicitedNode   string `json:"solicited_node,omitempty" yaml:"solicited_node,omitempty"`
	Classification  string `json:"classification" yaml:"classification"`
	IsLoopback      bool   `json:"is_loopback" yaml:"is_loopback"`
	IsLinkLocal     bool   `json:"is_link_local" yaml:"is_link_local"`
	IsUniqueLocal   bool   `json:"is_unique_local" yaml:"is_unique_local"`
	IsMulticast     bool   `json:"is_multicast" yaml:"is_multicast"`
	IsDocumentation bool   `json:"is_documentation" yaml:"is_documentation"`
	IsGlobalUnicast bool   `json:"is_global_unicast" yaml:"is_global_unicast"`
}

var privateV4 = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
}

var (
	loopbackV4  = netip.MustParsePrefix("127.0.0.0/8")
	linkLocalV4 = netip.MustParsePrefix("169.254.0.0/16")
	multicastV4 = netip.MustParsePrefix("224.0.0.0/4")
)

func netmask32(prefix int) uint32 {
	if prefix == 0 {
		return 0
	}
	return ^uint32(0) << (32 - prefix)
}

// usableHosts follows RFC 3021 for /31 point-to-point links and treats /32
// as a host route.
func usableHosts(prefix int) uint64 {
	switch {
	case prefix >= 32:
		return 1
	case prefix == 31:
		return 2
	default:
		return (uint64(1) << (32 - prefix)) - 2
	}
}

func usableRange(network, broadcast uint32, prefix int) (uint32, uint32) {
	switch {
	case prefix >= 32:
		return network, network
	case prefix == 31:
		return network, broadcast
	default:
		return network + 1, broadcast - 1
	}
}

// ipv4Subnet computes the subnet record for an address inside a block. The
// classification flags describe the queried address itself, not the network,
// so callers can probe any address within the block.
func ipv4Subnet(addr uint32, prefix int) (IPv4SubnetResult, error) {
	if prefix < 0 || prefix > 32 {
		return IPv4SubnetResult{}, fmt.Errorf("%w: /%d for ipv4", errInvalidPrefix, prefix)
	}
	ip := u32ToIPv4(addr)
	r := netipx.RangeOfPrefix(netip.PrefixFrom(ip, prefix).Masked())
	network := ipv4ToU32(r.From())
	broadcast := ipv4ToU32(r.To())
	netmask := netmask32(prefix)
	first, last := usableRange(network, broadcast, prefix)

	return IPv4SubnetResult{
		Address:     ip.String(),
		CIDR:        r.From().String() + "/" + strconv.Itoa(prefix),
		Prefix:      prefix,
		Netmask:     u32ToIPv4(netmask).String(),
		Wildcard:    u32ToIPv4(^netmask).String(),
		Network:     r.From().String(),
		Broadcast:   r.To().String(),
		FirstHost:   u32ToIPv4(first).String(),
		LastHost:    u32ToIPv4(last).String(),
		HostCount:   usableHosts(prefix),
		IsPrivate:   containsAnyV4(privateV4, ip),
		IsLoopback:  loopbackV4.Contains(ip),
		IsLinkLocal: linkLocalV4.Contains(ip),
		IsMulticast: multicastV4.Contains(ip),
	}, nil
}

func containsAnyV4(blocks []netip.Prefix, ip netip.Addr) bool {
	for _, b := range blocks {
		if b.Contains(ip) {
			return true
		}
	}
	return false
}

func ipv6Subnet(addr netip.Addr, prefix int) (IPv6SubnetResult, error) {
	if prefix < 0 || prefix > 128 {
		return IPv6SubnetResult{}, fmt.Errorf("%w: /%d for ipv6", errInvalidPrefix, prefix)
	}
	p := netip.PrefixFrom(addr, prefix).Masked()
	r := netipx.RangeOfPrefix(p)
	total := new(big.Int).Lsh(big.NewInt(1), uint(128-prefix))
	label := classifyIPv6(addr)

	res := IPv6SubnetResult{
		Address:         compressIPv6(addr),
		CIDR:            compressIPv6(p.Addr()) + "/" + strconv.Itoa(prefix),
		Prefix:          prefix,
		Network:         compressIPv6(p.Addr()),
		NetworkExpanded: expandIPv6(p.Addr()),
		FirstAddress:    compressIPv6(r.From()),
		LastAddress:     compressIPv6(r.To()),
		HostBits:        128 - prefix,
		TotalAddresses:  total.String(),
		Classification:  label,
		IsLoopback:      label == "Loopback",
		IsLinkLocal:     label == "Link-Local Unicast",
		IsUniqueLocal:   label == "Unique Local",
		IsMulticast:     label == "Multicast",
		IsDocumentation: label == "Documentation",
		IsGlobalUnicast: label == "Global Unicast",
	}
	if hasSolicitedNode(addr) {
		res.SolicitedNode = compressIPv6(solicitedNode(addr))
	}
	return res, nil
}
