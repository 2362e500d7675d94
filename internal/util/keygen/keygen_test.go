package keygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestGenerate(t *testing.T) {
	kp, err := Generate("rfleet-test")
	require.NoError(t, err)

	assert.Contains(t, string(kp.PrivateKey), "OPENSSH PRIVATE KEY")
	assert.True(t, strings.HasPrefix(string(kp.PublicKey), "ssh-ed25519 "))
	assert.Contains(t, string(kp.PublicKey), "rfleet-test")

	// The private key must parse and match the public key.
	signer, err := ssh.ParsePrivateKey(kp.PrivateKey)
	require.NoError(t, err)

	pub, _, _, _, err := ssh.ParseAuthorizedKey(kp.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, signer.PublicKey().Marshal(), pub.Marshal())
}

func TestGenerate_UniqueKeys(t *testing.T) {
	a, err := Generate("")
	require.NoError(t, err)
	b, err := Generate("")
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKey, b.PublicKey)
}
