package main

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

var (
	errInvalidAddress = errors.New("invalid address format")
	errInvalidPrefix  = errors.New("invalid prefix length")
	errInvalidMAC     = errors.New("invalid mac address")
)

type IPv4ConvertResult struct {
	Dotted  string `json:"dotted" yaml:"dotted"`
	Decimal uint32 `json:"decimal" yaml:"decimal"`
	Binary  string `json:"binary" yaml:"binary"`
	Hex     string `json:"hex" yaml:"hex"`
}

// parseIPv4 decodes an IPv4 address from one of the accepted textual
// formats: dotted, decimal, binary, hex, or auto (dotted, then decimal).
func parseIPv4(text, format string) (uint32, error) {
	text = strings.TrimSpace(text)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "dotted", "":
		return parseDottedIPv4(text)
	case "decimal":
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a 32-bit decimal value", errInvalidAddress, text)
		}
		return uint32(v), nil
	case "binary":
		cleaned := stripSeparators(text, ". ")
		if cleaned == "" || len(cleaned) > 32 {
			return 0, fmt.Errorf("%w: %q is not a 32-bit binary value", errInvalidAddress, text)
		}
		v, err := strconv.ParseUint(cleaned, 2, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a 32-bit binary value", errInvalidAddress, text)
		}
		return uint32(v), nil
	case "hex":
		cleaned := text
		if strings.HasPrefix(cleaned, "0x") || strings.HasPrefix(cleaned, "0X") {
			cleaned = cleaned[2:]
		}
		cleaned = stripSeparators(cleaned, ": ")
		if cleaned == "" || len(cleaned) > 8 {
			return 0, fmt.Errorf("%w: %q is not a 32-bit hex value", errInvalidAddress, text)
		}
		v, err := strconv.ParseUint(cleaned, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a 32-bit hex value", errInvalidAddress, text)
		}
		return uint32(v), nil
	case "auto":
		if v, err := parseDottedIPv4(text); err == nil {
			return v, nil
		}
		return parseIPv4(text, "decimal")
	default:
		return 0, fmt.Errorf("%w: unknown ipv4 format %q", errInvalidAddress, format)
	}
}

func parseDottedIPv4(text string) (uint32, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%w: %q needs exactly 4 octets", errInvalidAddress, text)
	}
	var v uint32
	for _, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: octet %q out of range", errInvalidAddress, part)
		}
		v = v<<8 | uint32(n)
	}
	return v, nil
}

func ipv4Conversions(v uint32) IPv4ConvertResult {
	return IPv4ConvertResult{
		Dotted:  ipv4ToDotted(v),
		Decimal: v,
		Binary:  ipv4ToBinary(v),
		Hex:     ipv4ToHex(v),
	}
}

func ipv4ToDotted(v uint32) string {
	return u32ToIPv4(v).String()
}

func ipv4ToBinary(v uint32) string {
	var parts [4]string
	for i := 0; i < 4; i++ {
		parts[i] = fmt.Sprintf("%08b", byte(v>>uint(24-8*i)))
	}
	return strings.Join(parts[:], ".")
}

func ipv4ToHex(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}

// parseIPv6 accepts full, compressed and mixed (trailing dotted quad)
// notations. Zoned addresses and plain IPv4 are rejected.
func parseIPv6(text string) (netip.Addr, error) {
	a, err := netip.ParseAddr(strings.TrimSpace(text))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %v", errInvalidAddress, err)
	}
	if a.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("%w: zoned addresses are not supported", errInvalidAddress)
	}
	if a.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not an ipv6 address", errInvalidAddress, text)
	}
	return a, nil
}

func parsePrefixLen(raw string, bits int) (int, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "/")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > bits {
		return 0, fmt.Errorf("%w: %q (want 0-%d)", errInvalidPrefix, raw, bits)
	}
	return n, nil
}

func parseIPv4CIDR(text string) (uint32, int, error) {
	addrPart, prefixPart, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is missing a prefix length", errInvalidAddress, text)
	}
	addr, err := parseDottedIPv4(addrPart)
	if err != nil {
		return 0, 0, err
	}
	prefix, err := parsePrefixLen(prefixPart, 32)
	if err != nil {
		return 0, 0, err
	}
	return addr, prefix, nil
}

func parseIPv6CIDR(text string) (netip.Addr, int, error) {
	addrPart, prefixPart, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return netip.Addr{}, 0, fmt.Errorf("%w: %q is missing a prefix length", errInvalidAddress, text)
	}
	addr, err := parseIPv6(addrPart)
	if err != nil {
		return netip.Addr{}, 0, err
	}
	prefix, err := parsePrefixLen(prefixPart, 128)
	if err != nil {
		return netip.Addr{}, 0, err
	}
	return addr, prefix, nil
}

func stripSeparators(s, seps string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(seps, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// helpers
func ipv4ToU32(a netip.Addr) uint32 {
	b := a.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func u32ToIPv4(v uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
