package interfaces

import "errors"

var (
	// ErrInvalidName is returned for names that are malformed or do not end with NameSuffix.
	ErrInvalidName = errors.New("invalid name")

	// ErrMalformedWireName is returned when a DNS-wire encoded name cannot be decoded.
	ErrMalformedWireName = errors.New("malformed dns-wire name")

	// ErrMalformedPayload is returned when a CCIP-Read request payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrProjectNotFound is returned when the registry reports the zero project id for a slug.
	ErrProjectNotFound = errors.New("project not found")

	// ErrRegistryUnavailable is returned when a registry query fails or times out.
	ErrRegistryUnavailable = errors.New("registry unavailable")
)
