// Package keygen generates SSH key pairs for fleet instance access.
//
// Keys are ed25519, output as a PEM-encoded OpenSSH private key and an
// authorized_keys-format public key suitable for EC2 key pair import.
package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds an SSH key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is PEM-encoded in OpenSSH format.
	PrivateKey []byte
	// PublicKey is in OpenSSH authorized_keys format.
	PublicKey []byte
}

// Generate creates a new ed25519 key pair. The comment is embedded in the
// private key and appended to the public key line.
func Generate(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH public key: %w", err)
	}

	public := ssh.MarshalAuthorizedKey(sshPub)
	if comment != "" {
		// MarshalAuthorizedKey ends with a newline; splice the comment in.
		public = append(public[:len(public)-1], []byte(" "+comment+"\n")...)
	}

	return &KeyPair{
		PrivateKey: pem.EncodeToMemory(block),
		PublicKey:  public,
	}, nil
}
