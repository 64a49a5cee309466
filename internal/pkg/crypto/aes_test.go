package crypto

import (
	"bytes"
	"crypto/aes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

var (
	testKey = []byte("0123456789abcdef")
	testIV  = []byte("fedcba9876543210")
)

func TestNewEncryptor(t *testing.T) {
	tests := []struct {
		name    string
		key     []byte
		iv      []byte
		wantErr error
	}{
		{name: "16 byte key", key: make([]byte, 16), iv: make([]byte, 16), wantErr: nil},
		{name: "24 byte key", key: make([]byte, 24), iv: make([]byte, 16), wantErr: nil},
		{name: "32 byte key", key: make([]byte, 32), iv: make([]byte, 16), wantErr: nil},
		{name: "short key", key: make([]byte, 15), iv: make([]byte, 16), wantErr: ErrInvalidKeySize},
		{name: "long key", key: make([]byte, 33), iv: make([]byte, 16), wantErr: ErrInvalidKeySize},
		{name: "empty key", key: nil, iv: make([]byte, 16), wantErr: ErrInvalidKeySize},
		{name: "short iv", key: make([]byte, 16), iv: make([]byte, 8), wantErr: ErrInvalidIVSize},
		{name: "long iv", key: make([]byte, 16), iv: make([]byte, 32), wantErr: ErrInvalidIVSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncryptor(tt.key, tt.iv)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewEncryptor(testKey, testIV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plaintexts := []string{
		"",
		"x",
		"api-key-123",
		"exactly sixteen!",
		strings.Repeat("stockroom ", 25),
	}

	for _, plaintext := range plaintexts {
		encoded := enc.EncryptString(plaintext)

		decrypted, err := enc.DecryptString(encoded)
		if err != nil {
			t.Errorf("DecryptString(%q ciphertext): unexpected error: %v", plaintext, err)
			continue
		}
		if decrypted != plaintext {
			t.Errorf("round trip: expected %q, got %q", plaintext, decrypted)
		}
	}
}

// Same key, IV, and plaintext must always yield the same ciphertext. The
// server relies on this to compare the API key header against a single
// precomputed value.
func TestEncryptor_Deterministic(t *testing.T) {
	first, err := NewEncryptor(testKey, testIV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewEncryptor(testKey, testIV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := first.EncryptString("shared-api-key")
	b := first.EncryptString("shared-api-key")
	c := second.EncryptString("shared-api-key")

	if a != b {
		t.Errorf("same encryptor produced differing ciphertexts: %q vs %q", a, b)
	}
	if a != c {
		t.Errorf("independent encryptors produced differing ciphertexts: %q vs %q", a, c)
	}
}

func TestEncryptor_OutputFormat(t *testing.T) {
	enc, err := NewEncryptor(testKey, testIV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded := enc.EncryptString(strings.Repeat("a", 100))

	if strings.ContainsAny(encoded, "\r\n") {
		t.Error("encoded ciphertext must not contain line breaks")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("output is not standard base64: %v", err)
	}
	if len(raw)%aes.BlockSize != 0 {
		t.Errorf("ciphertext length %d is not block-aligned", len(raw))
	}

	// Block-aligned input still gains a full padding block.
	raw, err = base64.StdEncoding.DecodeString(enc.EncryptString("exactly sixteen!"))
	if err != nil {
		t.Fatalf("output is not standard base64: %v", err)
	}
	if len(raw) != 2*aes.BlockSize {
		t.Errorf("expected %d ciphertext bytes for block-aligned input, got %d", 2*aes.BlockSize, len(raw))
	}
}

func TestEncryptor_DecryptErrors(t *testing.T) {
	enc, err := NewEncryptor(testKey, testIV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := enc.Decrypt("not base64 at all!!!"); err == nil {
		t.Error("expected error for malformed base64")
	}

	notAligned := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := enc.Decrypt(notAligned); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext, got %v", err)
	}

	if _, err := enc.Decrypt(""); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext for empty input, got %v", err)
	}
}

func TestPad(t *testing.T) {
	for n := 0; n < 3*aes.BlockSize; n++ {
		data := bytes.Repeat([]byte{'p'}, n)
		padded := pad(data, aes.BlockSize)

		if len(padded)%aes.BlockSize != 0 {
			t.Errorf("pad(%d bytes): length %d not block-aligned", n, len(padded))
		}
		if len(padded) <= n {
			t.Errorf("pad(%d bytes): padding must always add bytes, got length %d", n, len(padded))
		}

		unpadded, err := unpad(padded, aes.BlockSize)
		if err != nil {
			t.Errorf("unpad(pad(%d bytes)): unexpected error: %v", n, err)
			continue
		}
		if !bytes.Equal(unpadded, data) {
			t.Errorf("unpad(pad(%d bytes)): data mismatch", n)
		}
	}
}

func TestUnpadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "not block-aligned", data: bytes.Repeat([]byte{1}, 15)},
		{name: "zero padding byte", data: append(bytes.Repeat([]byte{'x'}, 15), 0)},
		{name: "padding byte over block size", data: append(bytes.Repeat([]byte{'x'}, 15), 17)},
		{name: "inconsistent padding bytes", data: append(bytes.Repeat([]byte{'x'}, 13), 2, 5, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := unpad(tt.data, aes.BlockSize); !errors.Is(err, ErrInvalidPadding) {
				t.Errorf("expected ErrInvalidPadding, got %v", err)
			}
		})
	}
}
