package easypost

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
)

// SignatureHeader is the header EasyPost signs webhook deliveries with.
const SignatureHeader = "X-Hmac-Signature"

// SignatureVerificationError reports a failed webhook authentication.
// The message distinguishes a missing signature header from a mismatch.
type SignatureVerificationError struct {
	Message string
}

// Error implements the error interface.
func (e *SignatureVerificationError) Error() string {
	return e.Message
}

// Is implements errors.Is for SignatureVerificationError.
func (e *SignatureVerificationError) Is(target error) bool {
	_, ok := target.(*SignatureVerificationError)
	return ok
}

// ValidateWebhook authenticates an inbound webhook payload against the
// shared secret and returns the parsed event on success.
//
// rawBody must be the request body exactly as delivered: re-serializing
// a parsed structure can change byte content and invalidate the
// signature. The secret is taken as raw UTF-8 bytes, matching how the
// vendor computes the original digest, so multi-byte secrets verify
// correctly. The comparison is constant time.
func ValidateWebhook(rawBody []byte, headers http.Header, secret string) (*Event, error) {
	signature := headers.Get(SignatureHeader)
	if signature == "" {
		return nil, &SignatureVerificationError{
			Message: "Webhook does not contain a valid HMAC signature.",
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := "hmac-sha256-hex=" + hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant time; a length mismatch fails the same way.
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, &SignatureVerificationError{
			Message: "Webhook received did not originate from EasyPost or had a webhook secret mismatch.",
		}
	}

	event, err := parseEvent(rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return event, nil
}

// ComputeSignature produces the header value EasyPost would send for a
// body under the given secret. Used by tests and local tooling.
func ComputeSignature(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return "hmac-sha256-hex=" + hex.EncodeToString(mac.Sum(nil))
}
