package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword([]byte("c0rrect-h0rse!")))
	assert.Error(t, ValidatePassword([]byte("short")))
	assert.Error(t, ValidatePassword([]byte("has a space")))
	assert.Error(t, ValidatePassword([]byte("unicodé-pass")))
}

func TestWalletPassword_FromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "from-env-123\n")

	pw, err := WalletPassword("unused: ")
	require.NoError(t, err)
	assert.Equal(t, "from-env-123", string(pw))
}

func TestWalletPassword_EnvValidated(t *testing.T) {
	t.Setenv(PasswordEnv, "short")

	_, err := WalletPassword("unused: ")
	assert.Error(t, err)
}

func TestZeroBytes(t *testing.T) {
	b := []byte("secret")
	ZeroBytes(b)
	assert.Equal(t, make([]byte, 6), b)
}
