package cryptox_test

import (
	"strings"
	"testing"

	"github.com/littledragon/assistant/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	require.ErrorIs(t,
		cryptox.VerifyPassword("wrong password", hash),
		cryptox.ErrPasswordMismatch,
	)
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashPassword("pw1")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("pw1")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, cryptox.VerifyPassword("pw1", a))
	require.NoError(t, cryptox.VerifyPassword("pw1", b))
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	for _, h := range []string{"", "plainhash", "$bcrypt$v=19$m=1,t=1,p=1$x$y"} {
		err := cryptox.VerifyPassword("pw", h)
		require.Error(t, err)
		require.NotErrorIs(t, err, cryptox.ErrPasswordMismatch)
	}
}
