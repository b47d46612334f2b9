package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// DefaultSignatureTTL is the maximum age of a signed webhook timestamp.
	DefaultSignatureTTL = 5 * time.Minute

	maxClockSkew = time.Minute
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// SignWebhook returns the hex HMAC-SHA256 of "<timestamp>.<body>" keyed by secret.
func SignWebhook(secret, timestamp string, body []byte) string {
	return hex.EncodeToString(hmacSHA256([]byte(secret), signedPayload(timestamp, body)))
}

// VerifyWebhookSignature checks a webhook body against its timestamp and
// signature headers. maxAge <= 0 means DefaultSignatureTTL.
func VerifyWebhookSignature(body []byte, timestamp, signature, secret string, maxAge time.Duration) error {
	if maxAge <= 0 {
		maxAge = DefaultSignatureTTL
	}
	if signature == "" {
		return fmt.Errorf("%w: signature is missing", ErrInvalidSignature)
	}
	if timestamp == "" {
		return fmt.Errorf("%w: timestamp is missing", ErrInvalidSignature)
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp is not a valid unix time", ErrInvalidSignature)
	}
	signedAt := time.Unix(unix, 0)
	if age := time.Since(signedAt); age > maxAge {
		return fmt.Errorf("%w: signature expired, %s old (max %s)", ErrInvalidSignature, age.Round(time.Second), maxAge)
	}
	if signedAt.After(time.Now().Add(maxClockSkew)) {
		return fmt.Errorf("%w: timestamp is in the future", ErrInvalidSignature)
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not hex", ErrInvalidSignature)
	}
	want := hmacSHA256([]byte(secret), signedPayload(timestamp, body))
	if !hmac.Equal(got, want) {
		return fmt.Errorf("%w: body integrity check failed", ErrInvalidSignature)
	}
	return nil
}

func signedPayload(timestamp string, body []byte) []byte {
	out := make([]byte, 0, len(timestamp)+1+len(body))
	out = append(out, timestamp...)
	out = append(out, '.')
	return append(out, body...)
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
