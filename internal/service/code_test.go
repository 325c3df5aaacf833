package service

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Format(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	neverTaken := func(string) (bool, error) { return false, nil }

	for i := 0; i < 100; i++ {
		code, attempts, err := GenerateCode(rnd, neverTaken)
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
		assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
	}
}

func TestGenerateCode_RetriesUntilFree(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	calls := 0
	code, attempts, err := GenerateCode(rnd, func(string) (bool, error) {
		calls++
		return calls < 4, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 4, calls)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestGenerateCode_Exhaustion(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	calls := 0
	code, attempts, err := GenerateCode(rnd, func(string) (bool, error) {
		calls++
		return true, nil
	})

	require.ErrorIs(t, err, ErrCodeExhausted)
	assert.Empty(t, code)
	assert.Equal(t, maxCodeAttempts, attempts)
	assert.Equal(t, maxCodeAttempts, calls)
}

func TestGenerateCode_CheckError(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	boom := errors.New("boom")

	code, attempts, err := GenerateCode(rnd, func(string) (bool, error) {
		return false, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Empty(t, code)
	assert.Equal(t, 1, attempts)
}
