package storage

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12 // GCM standard nonce size
	saltSize         = 16
	pbkdf2Iterations = 100000

	saltKey  = "encryption_salt"
	checkKey = "encryption_check"
)

var checkPlaintext = []byte("taskmgr")

// ErrDecrypt means the passphrase is wrong or the data is corrupted
var ErrDecrypt = errors.New("decryption failed: invalid passphrase or corrupted data")

// Encrypted seals every value with AES-256-GCM before handing it to the
// wrapped backend. The PBKDF2 salt is stored in the clear next to the data.
type Encrypted struct {
	inner Backend
	key   []byte
}

// NewEncrypted wraps inner, creating a salt on first use. A wrong
// passphrase for existing data fails with ErrDecrypt.
func NewEncrypted(ctx context.Context, inner Backend, passphrase string) (*Encrypted, error) {
	if passphrase == "" {
		return nil, errors.New("encryption passphrase is empty")
	}

	salt, err := inner.Get(ctx, saltKey)
	fresh := errors.Is(err, ErrNotFound)
	switch {
	case fresh:
		salt, err = generateSalt()
		if err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read salt: %w", err)
	default:
		salt, err = base64.StdEncoding.DecodeString(string(salt))
		if err != nil {
			return nil, fmt.Errorf("failed to decode salt: %w", err)
		}
	}

	e := &Encrypted{
		inner: inner,
		key:   pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New),
	}

	if fresh {
		check, err := e.encrypt(checkPlaintext)
		if err != nil {
			return nil, err
		}
		if err := inner.Put(ctx, map[string][]byte{
			saltKey:  []byte(base64.StdEncoding.EncodeToString(salt)),
			checkKey: check,
		}); err != nil {
			return nil, fmt.Errorf("failed to store salt: %w", err)
		}
		return e, nil
	}

	check, err := inner.Get(ctx, checkKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase check: %w", err)
	}
	plain, err := e.decrypt(check)
	if err != nil || !bytes.Equal(plain, checkPlaintext) {
		return nil, ErrDecrypt
	}
	return e, nil
}

// Get decrypts the value stored under key
func (e *Encrypted) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := e.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return e.decrypt(data)
}

// Put encrypts every entry and writes them in one call
func (e *Encrypted) Put(ctx context.Context, entries map[string][]byte) error {
	sealed := make(map[string][]byte, len(entries))
	for k, v := range entries {
		enc, err := e.encrypt(v)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", k, err)
		}
		sealed[k] = enc
	}
	return e.inner.Put(ctx, sealed)
}

// Close closes the wrapped backend
func (e *Encrypted) Close() error {
	return e.inner.Close()
}

func generateSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// encrypt returns base64(nonce + ciphertext)
func (e *Encrypted) encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func (e *Encrypted) decrypt(encoded []byte) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, ErrDecrypt
	}
	if len(data) < nonceSize {
		return nil, ErrDecrypt
	}

	gcm, err := e.gcm()
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func (e *Encrypted) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
