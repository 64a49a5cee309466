// Package crypto provides cryptographic utilities for Stockroom.
// This includes AES-CBC encryption for the API key header and the
// SHA-256 password digest shared by both stores.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

// Errors
var (
	// ErrInvalidKeySize indicates the encryption key is not 16, 24, or 32 bytes.
	ErrInvalidKeySize = errors.New("encryption key must be 16, 24, or 32 bytes")

	// ErrInvalidIVSize indicates the IV does not match the AES block size.
	ErrInvalidIVSize = errors.New("iv must be 16 bytes")

	// ErrInvalidCiphertext indicates the ciphertext is empty or not block-aligned.
	ErrInvalidCiphertext = errors.New("invalid ciphertext: empty or not block-aligned")

	// ErrInvalidPadding indicates the decrypted data carries malformed padding.
	ErrInvalidPadding = errors.New("invalid padding")
)

// Encryptor provides AES-CBC encryption with PKCS#7 padding.
//
// The key and IV are fixed at construction, so the same plaintext always
// produces the same ciphertext. That determinism is the point: the server
// compares the encrypted API key header against a precomputed value, and
// every client must produce that exact value.
type Encryptor struct {
	block cipher.Block
	iv    []byte
}

// NewEncryptor creates a new Encryptor with the given key and IV.
// The key must be 16, 24, or 32 bytes; the IV must be 16 bytes.
func NewEncryptor(key, iv []byte) (*Encryptor, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeySize
	}
	if len(iv) != aes.BlockSize {
		return nil, ErrInvalidIVSize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &Encryptor{
		block: block,
		iv:    append([]byte(nil), iv...),
	}, nil
}

// Encrypt encrypts the plaintext and returns base64-encoded ciphertext.
// The output uses standard base64 with no line breaks.
func (e *Encryptor) Encrypt(plaintext []byte) string {
	padded := pad(plaintext, aes.BlockSize)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(e.block, e.iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext)
}

// Decrypt decrypts base64-encoded ciphertext and returns the plaintext.
func (e *Encryptor) Decrypt(encoded string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(e.block, e.iv).CryptBlocks(padded, ciphertext)

	return unpad(padded, aes.BlockSize)
}

// EncryptString encrypts a string and returns base64-encoded ciphertext.
func (e *Encryptor) EncryptString(plaintext string) string {
	return e.Encrypt([]byte(plaintext))
}

// DecryptString decrypts base64-encoded ciphertext and returns a string.
func (e *Encryptor) DecryptString(encoded string) (string, error) {
	plaintext, err := e.Decrypt(encoded)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// pad appends PKCS#7 padding up to the next block boundary. Input that
// is already block-aligned gains a full block of padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding, validating every padding byte.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}

	return data[:len(data)-n], nil
}
