package main

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"
)

type EUI64Result struct {
	MAC             string `json:"mac" yaml:"mac"`
	InterfaceID     string `json:"interface_id" yaml:"interface_id"`
	Prefix          string `json:"prefix" yaml:"prefix"`
	Address         string `json:"address" yaml:"address"`
	AddressExpanded string `json:"address_expanded" yaml:"address_expanded"`
	LinkLocal       string `json:"link_local" yaml:"link_local"`
	SolicitedNode   string `json:"solicited_node" yaml:"solicited_node"`
}

var (
	linkLocalPrefix   = netip.MustParseAddr("fe80::")
	solicitedNodeBase = netip.MustParseAddr("ff02::1:ff00:0")
	macSeparatorStrip = strings.NewReplacer(":", "", "-", "", ".", "", " ", "")
)

// parseMAC accepts any delimited 48-bit hex form; the cleaned input must be
// exactly 12 hex digits.
func parseMAC(text string) ([6]byte, error) {
	var mac [6]byte
	cleaned := macSeparatorStrip.Replace(strings.TrimSpace(text))
	if len(cleaned) != 12 {
		return mac, fmt.Errorf("%w: %q", errInvalidMAC, text)
	}
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return mac, fmt.Errorf("%w: %q", errInvalidMAC, text)
	}
	copy(mac[:], raw)
	return mac, nil
}

// interfaceID builds the modified EUI-64: the two 24-bit MAC halves spliced
// with ff:fe and the universal/local bit of the first octet flipped.
func interfaceID(mac [6]byte) [8]byte {
	return [8]byte{mac[0] ^ 0x02, mac[1], mac[2], 0xff, 0xfe, mac[3], mac[4], mac[5]}
}

// eui64Address concatenates the top 64 bits of prefix with the interface
// identifier derived from mac.
func eui64Address(prefix netip.Addr, mac [6]byte) netip.Addr {
	b := prefix.As16()
	iid := interfaceID(mac)
	copy(b[8:], iid[:])
	return netip.AddrFrom16(b)
}

func linkLocalFromMAC(mac [6]byte) netip.Addr {
	return eui64Address(linkLocalPrefix, mac)
}

// solicitedNode appends the low 24 bits of the target address to the fixed
// ff02::1:ff00:0/104 prefix, per Neighbor Discovery.
func solicitedNode(a netip.Addr) netip.Addr {
	b := a.As16()
	out := solicitedNodeBase.As16()
	out[13], out[14], out[15] = b[13], b[14], b[15]
	return netip.AddrFrom16(out)
}

func deriveEUI64(macText, prefixText string) (EUI64Result, error) {
	mac, err := parseMAC(macText)
	if err != nil {
		return EUI64Result{}, err
	}
	prefix := linkLocalPrefix
	if strings.TrimSpace(prefixText) != "" {
		prefix, err = parseIPv6(prefixText)
		if err != nil {
			return EUI64Result{}, err
		}
	}
	addr := eui64Address(prefix, mac)
	iid := interfaceID(mac)
	return EUI64Result{
		MAC:             formatMAC(mac),
		InterfaceID:     formatInterfaceID(iid),
		Prefix:          compressIPv6(prefix),
		Address:         compressIPv6(addr),
		AddressExpanded: expandIPv6(addr),
		LinkLocal:       compressIPv6(linkLocalFromMAC(mac)),
		SolicitedNode:   compressIPv6(solicitedNode(addr)),
	}, nil
}

func formatMAC(mac [6]byte) string {
	parts := make([]string, 6)
	for i, b := range mac {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}

func formatInterfaceID(iid [8]byte) string {
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x:%02x%02x",
		iid[0], iid[1], iid[2], iid[3], iid[4], iid[5], iid[6], iid[7])
}
