package ir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-plc/ladderscan/internal/constants"
)

var tagNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

var addressPattern = regexp.MustCompile(`^%[IQMDB][0-9]+\.[0-9]+$`)

// ValidTagName reports whether name matches the tag name syntax in spec §6.
func ValidTagName(name string) bool {
	return tagNamePattern.MatchString(name)
}

// ValidAddress reports whether addr matches the physical address syntax
// %[IQMDB]<byte>.<bit> in spec §6.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}

// AddressToTagID deterministically maps a physical address to a synthetic
// tag id: "%I0.0" -> "__addr_I0_0" (spec §3/§4.1).
func AddressToTagID(addr string) string {
	body := strings.TrimPrefix(addr, string(constants.AddressPrefix))
	body = strings.ReplaceAll(body, string(constants.AddressSep), "_")
	return constants.AddressTagIDTag + body
}

// ResolveOperand returns the tag id an operand refers to, preferring an
// explicit tag id over a physical address. Returns ErrOperandUnresolved
// if neither is set.
func ResolveOperand(tag, address string) (string, error) {
	if tag != "" {
		return tag, nil
	}
	if address != "" {
		return AddressToTagID(address), nil
	}
	return "", fmt.Errorf("%w: operand has neither tag nor address", ErrOperandUnresolved)
}
