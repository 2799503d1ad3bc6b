// Package crypto provides Ed25519 signing of descriptor documents.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"
)

const (
	privateKeyType = "ED25519 PRIVATE KEY"
	publicKeyType  = "ED25519 PUBLIC KEY"
)

// SigAlgEd25519 is the only signature algorithm the descriptor format carries
const SigAlgEd25519 = "ed25519"

// GenerateKeys writes a fresh Ed25519 keypair as PEM files.
func GenerateKeys(privateKeyPath, publicKeyPath string) error {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate keypair: %w", err)
	}

	if err := writePEM(privateKeyPath, privateKeyType, privateKey); err != nil {
		return err
	}
	return writePEM(publicKeyPath, publicKeyType, publicKey)
}

// writePEM one key file
func writePEM(path, blockType string, key []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create key file: %w", err)
	}
	defer f.Close()

	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: key}); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

// readPEM one key file
func readPEM(path, wantType string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}
	if block.Type != wantType {
		return nil, fmt.Errorf("invalid key type: expected %s, got %s", wantType, block.Type)
	}
	return block.Bytes, nil
}

// LoadPrivateKey from a PEM file.
func LoadPrivateKey(path string) (ed25519.PrivateKey, error) {
	raw, err := readPEM(path, privateKeyType)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key size")
	}
	return ed25519.PrivateKey(raw), nil
}

// LoadPublicKey from a PEM file.
func LoadPublicKey(path string) (ed25519.PublicKey, error) {
	raw, err := readPEM(path, publicKeyType)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key size")
	}
	return ed25519.PublicKey(raw), nil
}

// Sign data with the key at privateKeyPath.
func Sign(data []byte, privateKeyPath string) ([]byte, error) {
	privateKey, err := LoadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(privateKey, data), nil
}

// Verify data against a signature using the key at publicKeyPath.
func Verify(data, signature []byte, publicKeyPath string) (bool, error) {
	publicKey, err := LoadPublicKey(publicKeyPath)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(publicKey, data, signature), nil
}
