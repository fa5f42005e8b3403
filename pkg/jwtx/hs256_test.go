package jwtx_test

import (
	"testing"
	"time"

	"github.com/littledragon/assistant/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "assistant-test"

func newSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256([]byte("test-secret-please-rotate"), testIssuer)
	require.NoError(t, err)
	return h
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	h := newSigner(t)

	claims := jwtx.NewAccessClaims("a@example.com", testIssuer, time.Minute, time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", got.Subject)
	require.Equal(t, testIssuer, got.Issuer)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()
	h := newSigner(t)

	past := time.Now().UTC().Add(-time.Hour)
	claims := jwtx.NewAccessClaims("a@example.com", testIssuer, time.Minute, past)
	token, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	h := newSigner(t)
	other, err := jwtx.NewHS256([]byte("a-different-secret"), testIssuer)
	require.NoError(t, err)

	token, err := other.Sign(jwtx.NewAccessClaims("a@example.com", testIssuer, time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	h := newSigner(t)

	for _, in := range []string{"", "abc", "a.b", "a.b.c.d"} {
		_, err := h.Verify(in)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "input %q", in)
	}
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()
	h := newSigner(t)

	token, err := h.Sign(jwtx.NewAccessClaims("a@example.com", "someone-else", time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestDecodeSkipsSignatureAndExpiry(t *testing.T) {
	t.Parallel()
	h := newSigner(t)

	past := time.Now().UTC().Add(-2 * time.Hour)
	token, err := h.Sign(jwtx.NewAccessClaims("a@example.com", testIssuer, time.Minute, past))
	require.NoError(t, err)

	claims, err := h.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", claims.Subject)
	require.True(t, claims.ExpiresAt.Before(time.Now()))

	_, err = h.Decode("not a token")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}
