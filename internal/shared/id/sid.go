// Package id mints the public identifiers returned by the API. Numeric
// primary keys stay inside the database.
package id

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Kind is the prefix that tells one family of public ids from another.
type Kind string

const (
	Plan         Kind = "plan"
	Subscription Kind = "sub"
	Purchase     Kind = "pur"
	Payment      Kind = "pay"
)

const (
	base62     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	BodyLength = 14

	// 248 is the largest multiple of 62 that fits in a byte.
	rejectFrom = 248
)

// New returns "<kind>_<body>" with a uniformly random base62 body.
func (k Kind) New() (string, error) {
	body, err := randomBase62(BodyLength)
	if err != nil {
		return "", fmt.Errorf("mint %s id: %w", k, err)
	}
	return string(k) + "_" + body, nil
}

// Matches reports whether sid carries this kind's prefix followed by a
// non-empty base62 body. Seeded ids may have a shorter body than minted ones.
func (k Kind) Matches(sid string) bool {
	prefix, body, ok := strings.Cut(sid, "_")
	if !ok || prefix != string(k) || body == "" {
		return false
	}
	for i := 0; i < len(body); i++ {
		if strings.IndexByte(base62, body[i]) < 0 {
			return false
		}
	}
	return true
}

func NewPlanSID() (string, error)         { return Plan.New() }
func NewSubscriptionSID() (string, error) { return Subscription.New() }
func NewPurchaseSID() (string, error)     { return Purchase.New() }
func NewPaymentSID() (string, error)      { return Payment.New() }

func randomBase62(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4+1)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= rejectFrom {
				continue
			}
			out = append(out, base62[int(b)%len(base62)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
