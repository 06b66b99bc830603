package main

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

type IPv6CanonicalResult struct {
	Address        string `json:"address" yaml:"address"`
	Compressed     string `json:"compressed" yaml:"compressed"`
	Expanded       string `json:"expanded" yaml:"expanded"`
	Classification string `json:"classification" yaml:"classification"`
	SolicitedNode  string `json:"solicited_node,omitempty" yaml:"solicited_node,omitempty"`
}

// Special-purpose blocks ordered by prefix length descending so the most
// specific match always wins.
var ipv6Blocks = []struct {
	prefix netip.Prefix
	label  string
}{
	{netip.MustParsePrefix("::/128"), "Unspecified"},
	{netip.MustParsePrefix("::1/128"), "Loopback"},
	{netip.MustParsePrefix("2001:db8::/32"), "Documentation"},
	{netip.MustParsePrefix("fe80::/10"), "Link-Local Unicast"},
	{netip.MustParsePrefix("ff00::/8"), "Multicast"},
	{netip.MustParsePrefix("fc00::/7"), "Unique Local"},
}

var multicastV6 = netip.MustParsePrefix("ff00::/8")

// hasSolicitedNode reports whether a solicited-node group is defined for
// the address. Multicast and unspecified addresses have none.
func hasSolicitedNode(a netip.Addr) bool {
	return !multicastV6.Contains(a) && a != netip.IPv6Unspecified()
}

func classifyIPv6(a netip.Addr) string {
	for _, b := range ipv6Blocks {
		if b.prefix.Contains(a) {
			return b.label
		}
	}
	return "Global Unicast"
}

func addrGroups(a netip.Addr) [8]uint16 {
	b := a.As16()
	var g [8]uint16
	for i := 0; i < 8; i++ {
		g[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return g
}

// longestZeroRun returns the start and length of the leftmost longest run
// of consecutive all-zero groups. Runs shorter than two groups never
// qualify for :: compression.
func longestZeroRun(g [8]uint16) (int, int) {
	best, bestLen := -1, 0
	run, runLen := -1, 0
	for i := 0; i < 8; i++ {
		if g[i] != 0 {
			run, runLen = -1, 0
			continue
		}
		if run < 0 {
			run = i
		}
		runLen++
		if runLen > bestLen {
			best, bestLen = run, runLen
		}
	}
	if bestLen < 2 {
		return -1, 0
	}
	return best, bestLen
}

// compressIPv6 renders the RFC 5952 canonical form: lowercase hex, no
// leading zeros, the leftmost longest zero run collapsed to a single ::.
func compressIPv6(a netip.Addr) string {
	g := addrGroups(a)
	best, bestLen := longestZeroRun(g)
	var b strings.Builder
	for i := 0; i < 8; {
		if i == best {
			b.WriteString("::")
			i += bestLen
			continue
		}
		if i > 0 && i != best+bestLen {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatUint(uint64(g[i]), 16))
		i++
	}
	return b.String()
}

func expandIPv6(a netip.Addr) string {
	g := addrGroups(a)
	parts := make([]string, 8)
	for i, v := range g {
		parts[i] = fmt.Sprintf("%04x", v)
	}
	return strings.Join(parts, ":")
}

func canonicalizeIPv6(text string) (IPv6CanonicalResult, error) {
	a, err := parseIPv6(text)
	if err != nil {
		return IPv6CanonicalResult{}, err
	}
	res := IPv6CanonicalResult{
		Address:        strings.TrimSpace(text),
		Compressed:     compressIPv6(a),
		Expanded:       expandIPv6(a),
		Classification: classifyIPv6(a),
	}
	if hasSolicitedNode(a) {
		res.SolicitedNode = compressIPv6(solicitedNode(a))
	}
	return res, nil
}
