// Package provider defines the error taxonomy shared by the vendor clients
// (transcription, generation, synthesis). Handlers upstream only need to
// distinguish "the vendor rejected or mangled the request" from "we never
// reached the vendor" from "the vendor took too long".
package provider

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a vendor job does not reach a terminal state
// within its polling deadline.
var ErrTimeout = errors.New("transcription timed out")

// VendorError reports a non-2xx or malformed response from a vendor API.
// Detail carries whatever diagnostic the vendor provided (error field, raw
// body) so it survives into logs and the HTTP error response.
type VendorError struct {
	Vendor  string
	Message string
	Status  int
	Detail  string
}

func (e *VendorError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Vendor, e.Message)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// TransportError reports a network-level failure reaching a vendor.
type TransportError struct {
	Vendor string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Vendor, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
