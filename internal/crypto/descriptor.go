package crypto

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SignFile signs a descriptor YAML file with the key at privateKeyPath and
// rewrites the file with the signature appended to security.signatures.
// The signature covers the canonical document without the security block,
// so re-signing or adding publishers never invalidates earlier signatures.
func SignFile(path, privateKeyPath, publisher string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read descriptor: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("invalid descriptor YAML: %w", err)
	}

	message, err := CanonicalizeDocument(doc)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize descriptor: %w", err)
	}

	privateKey, err := LoadPrivateKey(privateKeyPath)
	if err != nil {
		return "", err
	}

	signature := ed25519.Sign(privateKey, message)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	security, _ := doc["security"].(map[string]any)
	if security == nil {
		security = make(map[string]any)
	}
	if publisher != "" {
		security["publisher"] = publisher
	}

	signatures, _ := security["signatures"].([]any)
	sigHex := hex.EncodeToString(signature)
	signatures = append(signatures, map[string]any{
		"alg":        SigAlgEd25519,
		"public_key": hex.EncodeToString(publicKey),
		"signature":  sigHex,
	})
	security["signatures"] = signatures
	doc["security"] = security

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render descriptor: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write descriptor: %w", err)
	}

	return sigHex, nil
}

// VerifyFile checks every signature attached to a descriptor file.
// A descriptor with no signatures verifies vacuously; callers that
// require signatures should check for their presence separately.
func VerifyFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read descriptor: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("invalid descriptor YAML: %w", err)
	}

	return VerifyDocument(doc)
}

// VerifyDocument checks every embedded signature over the canonical form.
func VerifyDocument(doc map[string]any) (bool, error) {
	security, _ := doc["security"].(map[string]any)
	if security == nil {
		return true, nil
	}
	signatures, _ := security["signatures"].([]any)
	if len(signatures) == 0 {
		return true, nil
	}

	message, err := CanonicalizeDocument(doc)
	if err != nil {
		return false, fmt.Errorf("failed to canonicalize descriptor: %w", err)
	}

	for i, raw := range signatures {
		entry, ok := raw.(map[string]any)
		if !ok {
			return false, fmt.Errorf("signature %d is malformed", i)
		}

		publicKeyHex, _ := entry["public_key"].(string)
		signatureHex, _ := entry["signature"].(string)
		if publicKeyHex == "" || signatureHex == "" {
			return false, fmt.Errorf("signature %d is missing public_key or signature", i)
		}

		publicKey, err := hex.DecodeString(publicKeyHex)
		if err != nil || len(publicKey) != ed25519.PublicKeySize {
			return false, fmt.Errorf("signature %d has an invalid public key", i)
		}

		signature, err := hex.DecodeString(signatureHex)
		if err != nil {
			return false, fmt.Errorf("signature %d is not valid hex", i)
		}

		if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
			return false, nil
		}
	}

	return true, nil
}
