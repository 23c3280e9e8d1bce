// Package names converts between dotted RWA-ID names and their DNS-wire form
// and derives the label hashes the registry is keyed by.
package names

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/rwa-id-gateway/interfaces"
)

// maxLabelLength is the largest label a single DNS-wire length byte can describe.
const maxLabelLength = 255

// Canonicalize trims surrounding whitespace and lower-cases s.
func Canonicalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LabelHash returns keccak256 of the canonicalized UTF-8 bytes of s.
// It is used for both the label and the slug of a name.
func LabelHash(s string) common.Hash {
	return crypto.Keccak256Hash([]byte(Canonicalize(s)))
}

// ParseDotted validates a `label.slug.rwa-id.eth` name.
// Everything after the second segment must equal interfaces.NameSuffix, so
// names with extra labels in front of the suffix are rejected.
func ParseDotted(name string) (interfaces.ParsedName, error) {
	parts := strings.Split(Canonicalize(name), ".")
	if len(parts) < 4 {
		return interfaces.ParsedName{}, fmt.Errorf("%w: must be label.slug.%s", interfaces.ErrInvalidName, interfaces.NameSuffix)
	}

	suffix := strings.Join(parts[2:], ".")
	if suffix != interfaces.NameSuffix {
		return interfaces.ParsedName{}, fmt.Errorf("%w: must end with .%s", interfaces.ErrInvalidName, interfaces.NameSuffix)
	}

	label, slug := parts[0], parts[1]
	if label == "" || slug == "" {
		return interfaces.ParsedName{}, fmt.Errorf("%w: empty label or slug", interfaces.ErrInvalidName)
	}

	return interfaces.ParsedName{Label: label, Slug: slug, Suffix: suffix}, nil
}

// DecodeDNSWire decodes a sequence of length-prefixed labels into a dotted name.
// A zero length byte terminates the sequence; a buffer that ends exactly on a
// label boundary is accepted without one.
func DecodeDNSWire(wire []byte) (string, error) {
	var labels []string
	for i := 0; i < len(wire); {
		n := int(wire[i])
		if n == 0 {
			break
		}
		i++
		if i+n > len(wire) {
			return "", fmt.Errorf("%w: label of length %d at offset %d overruns %d-byte buffer", interfaces.ErrMalformedWireName, n, i-1, len(wire))
		}
		label := string(wire[i : i+n])
		if strings.Contains(label, ".") {
			return "", fmt.Errorf("%w: label %q contains a dot", interfaces.ErrMalformedWireName, label)
		}
		labels = append(labels, label)
		i += n
	}
	return strings.Join(labels, "."), nil
}

// ParseDNSWire decodes wire and validates the result with ParseDotted.
func ParseDNSWire(wire []byte) (interfaces.ParsedName, error) {
	name, err := DecodeDNSWire(wire)
	if err != nil {
		return interfaces.ParsedName{}, err
	}
	return ParseDotted(name)
}

// EncodeDNSWire encodes a dotted name as length-prefixed labels followed by a zero byte.
func EncodeDNSWire(name string) ([]byte, error) {
	if name == "" {
		return []byte{0}, nil
	}

	labels := strings.Split(name, ".")
	out := make([]byte, 0, len(name)+2)
	for _, label := range labels {
		if len(label) == 0 {
			return nil, fmt.Errorf("%w: empty label in %q", interfaces.ErrInvalidName, name)
		}
		if len(label) > maxLabelLength {
			return nil, fmt.Errorf("%w: label of %d bytes exceeds %d", interfaces.ErrInvalidName, len(label), maxLabelLength)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0), nil
}
