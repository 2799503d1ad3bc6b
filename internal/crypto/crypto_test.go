package crypto

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCanonicalizeDeterministic(t *testing.T) {
	doc := map[string]any{
		"identity": map[string]any{"name": "tool", "purpose": "test"},
		"capability": map[string]any{
			"domain": "search",
			"inputs": []any{"q"},
		},
		"utcd_version": "1.0",
	}

	first, err := CanonicalizeDocument(doc)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	second, err := CanonicalizeDocument(doc)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("canonical form not deterministic")
	}
}

func TestCanonicalizeSortsKeys(t *testing.T) {
	out, err := CanonicalizeDocument(map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"nested_z": 2, "nested_a": 3},
	})
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}

	s := string(out)
	if strings.Index(s, "alpha") > strings.Index(s, "zebra") {
		t.Errorf("keys not sorted: %s", s)
	}
	if strings.Index(s, "nested_a") > strings.Index(s, "nested_z") {
		t.Errorf("nested keys not sorted: %s", s)
	}
}

func TestCanonicalizeStripsSecurity(t *testing.T) {
	withSecurity, err := CanonicalizeDocument(map[string]any{
		"identity": map[string]any{"name": "t"},
		"security": map[string]any{"publisher": "acme"},
	})
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	without, err := CanonicalizeDocument(map[string]any{
		"identity": map[string]any{"name": "t"},
	})
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}

	if !bytes.Equal(withSecurity, without) {
		t.Error("security block must not affect the signed message")
	}
	if strings.Contains(string(withSecurity), "acme") {
		t.Error("security content leaked into canonical form")
	}
}

func TestGenerateAndLoadKeys(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "test.key")
	pub := filepath.Join(dir, "test.pub")

	if err := GenerateKeys(priv, pub); err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}

	if _, err := LoadPrivateKey(priv); err != nil {
		t.Errorf("LoadPrivateKey: %v", err)
	}
	if _, err := LoadPublicKey(pub); err != nil {
		t.Errorf("LoadPublicKey: %v", err)
	}

	// keys are not interchangeable
	if _, err := LoadPrivateKey(pub); err == nil {
		t.Error("loading a public key as private should fail")
	}
}

func TestSignVerifyRoundtrip(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "k.key")
	pub := filepath.Join(dir, "k.pub")
	if err := GenerateKeys(priv, pub); err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}

	message := []byte("hello utcd")
	sig, err := Sign(message, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	ok, err := Verify(message, sig, pub)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("signature did not verify")
	}

	ok, err = Verify([]byte("tampered"), sig, pub)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("tampered message must not verify")
	}
}

const testDescriptor = `
utcd_version: "1.0"
identity:
  name: signed-tool
  purpose: signing test
capability:
  domain: search
  inputs: [q]
  outputs: [r]
constraints:
  side_effects: [none]
  data_retention: none
connection:
  modes:
    - type: rest
      detail: https://example.com
`

func TestSignFileVerifyFile(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "k.key")
	pub := filepath.Join(dir, "k.pub")
	if err := GenerateKeys(priv, pub); err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}

	path := filepath.Join(dir, "tool.utcd.yaml")
	if err := os.WriteFile(path, []byte(testDescriptor), 0644); err != nil {
		t.Fatal(err)
	}

	sigHex, err := SignFile(path, priv, "did:web:example.com")
	if err != nil {
		t.Fatalf("SignFile: %v", err)
	}
	if sigHex == "" {
		t.Fatal("empty signature")
	}

	// the rewritten file carries the signature and publisher
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	security, _ := doc["security"].(map[string]any)
	if security == nil {
		t.Fatal("security block not written")
	}
	if security["publisher"] != "did:web:example.com" {
		t.Errorf("publisher = %v", security["publisher"])
	}

	ok, err := VerifyFile(path)
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if !ok {
		t.Error("freshly signed descriptor did not verify")
	}
}

func TestVerifyFileDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "k.key")
	pub := filepath.Join(dir, "k.pub")
	if err := GenerateKeys(priv, pub); err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}

	path := filepath.Join(dir, "tool.utcd.yaml")
	if err := os.WriteFile(path, []byte(testDescriptor), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := SignFile(path, priv, ""); err != nil {
		t.Fatalf("SignFile: %v", err)
	}

	// widen the constraints after signing
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "data_retention: none", "data_retention: persistent", 1)
	if tampered == string(data) {
		t.Fatal("tamper replacement did not apply")
	}
	if err := os.WriteFile(path, []byte(tampered), 0644); err != nil {
		t.Fatal(err)
	}

	ok, err := VerifyFile(path)
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if ok {
		t.Error("tampered descriptor must not verify")
	}
}

func TestVerifyDocumentUnsigned(t *testing.T) {
	ok, err := VerifyDocument(map[string]any{"identity": map[string]any{"name": "t"}})
	if err != nil {
		t.Fatalf("VerifyDocument: %v", err)
	}
	if !ok {
		t.Error("unsigned descriptor verifies vacuously")
	}
}

func TestMultipleSignatures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.utcd.yaml")
	if err := os.WriteFile(path, []byte(testDescriptor), 0644); err != nil {
		t.Fatal(err)
	}

	for _, who := range []string{"a", "b"} {
		priv := filepath.Join(dir, who+".key")
		pub := filepath.Join(dir, who+".pub")
		if err := GenerateKeys(priv, pub); err != nil {
			t.Fatalf("GenerateKeys: %v", err)
		}
		if _, err := SignFile(path, priv, ""); err != nil {
			t.Fatalf("SignFile %s: %v", who, err)
		}
	}

	ok, err := VerifyFile(path)
	if err != nil {
		t.Fatalf("VerifyFile: %v", err)
	}
	if !ok {
		t.Error("co-signed descriptor did not verify")
	}
}
