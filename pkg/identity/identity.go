// Package identity generates synthetic senior identifiers and derives the
// virtual login address used where the subject has no real email.
//
// Pure and stateless: generation relies on a clock reading plus randomness
// rather than a central counter, so it is safe to call concurrently without
// coordination. Uniqueness is probabilistic, not exact; truncation also means
// temporal ordering of tokens is biased but not guaranteed.
package identity

import (
	"crypto/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	id "carelink/pkg/domain"
)

const (
	// Tag is the fixed 4-character prefix of every senior identity.
	Tag = "SNR-"

	// AddressPrefix and AddressDomain frame the virtual login address:
	// care_<identity>@virtual.carelink.io
	AddressPrefix = "care_"
	AddressDomain = "virtual.carelink.io"

	tokenLen = 12
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	randLen  = 4
)

var identityPattern = regexp.MustCompile(`^SNR-[A-Z0-9]{12}$`)

// Generate produces a fresh senior identity: the base-36 encoding of the
// current microsecond clock concatenated with a short random suffix,
// truncated to the last 12 characters.
func Generate() id.SeniorID {
	clock := strings.ToUpper(strconv.FormatInt(time.Now().UnixMicro(), 36))
	token := clock + randomSuffix(randLen)
	return id.SeniorID(Tag + token[len(token)-tokenLen:])
}

// Valid reports whether s satisfies the identity grammar ^SNR-[A-Z0-9]{12}$.
func Valid(s id.SeniorID) bool {
	return identityPattern.MatchString(string(s))
}

// DeriveAddress composes the virtual login address for an identity.
// Total: it does not validate its input.
func DeriveAddress(seniorID id.SeniorID) string {
	return AddressPrefix + string(seniorID) + "@" + AddressDomain
}

// ExtractIdentity parses an identity out of a virtual address. It is the
// exact inverse of DeriveAddress for all valid identities; ok is false when
// the prefix, identity pattern, or domain does not match.
func ExtractIdentity(address string) (id.SeniorID, bool) {
	rest, found := strings.CutPrefix(address, AddressPrefix)
	if !found {
		return "", false
	}
	token, found := strings.CutSuffix(rest, "@"+AddressDomain)
	if !found {
		return "", false
	}
	seniorID := id.SeniorID(token)
	if !Valid(seniorID) {
		return "", false
	}
	return seniorID, true
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = rand.Read(buf)
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}
