package service

import (
	"errors"
	"math/rand"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// maxCodeAttempts bounds the rejection sampling. Hitting the bound
	// means the code space is nearly exhausted; the operation fails hard
	// instead of retrying forever.
	maxCodeAttempts = 10
)

var ErrCodeExhausted = errors.New("could not generate a unique reservation code")

// GenerateCode samples 6-character uppercase-alphanumeric codes until taken
// reports one as free, retrying at most maxCodeAttempts times. It carries
// no hidden state: the rand source and the uniqueness check both come from
// the caller. The attempt count is returned for observability.
func GenerateCode(rnd *rand.Rand, taken func(string) (bool, error)) (string, int, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code := sampleCode(rnd)

		inUse, err := taken(code)
		if err != nil {
			return "", attempt, err
		}
		if !inUse {
			return code, attempt, nil
		}
	}
	return "", maxCodeAttempts, ErrCodeExhausted
}

func sampleCode(rnd *rand.Rand) string {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[rnd.Intn(len(codeAlphabet))])
	}
	return b.String()
}
