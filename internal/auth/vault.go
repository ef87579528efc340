package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

const (
	saltSize  = 16
	nonceSize = 12

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Vault stores OAuth credentials encrypted at rest. The file layout is
// salt || nonce || AES-GCM ciphertext, keyed by scrypt over the
// passphrase.
type Vault struct {
	path       string
	passphrase []byte
}

// NewVault creates a vault backed by the file at path.
func NewVault(path, passphrase string) *Vault {
	return &Vault{path: path, passphrase: []byte(passphrase)}
}

func (v *Vault) deriveKey(salt []byte) ([]byte, error) {
	return scrypt.Key(v.passphrase, salt, scryptN, scryptR, scryptP, 32)
}

// Save encrypts and writes the credentials, replacing any existing file.
func (v *Vault) Save(creds *Credentials) error {
	plain, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	key, err := v.deriveKey(salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("init gcm: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plain, nil)
	out := append(append(salt, nonce...), sealed...)

	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}
	if err := os.WriteFile(v.path, out, 0o600); err != nil {
		return fmt.Errorf("write vault: %w", err)
	}
	return nil
}

// Load reads and decrypts the stored credentials. It returns
// ErrNoCredentials when the vault file does not exist; a decryption
// failure (wrong passphrase, corrupt file) is a distinct error.
func (v *Vault) Load() (*Credentials, error) {
	raw, err := os.ReadFile(v.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("read vault: %w", err)
	}
	if len(raw) < saltSize+nonceSize+1 {
		return nil, errors.New("vault file truncated")
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	sealed := raw[saltSize+nonceSize:]

	key, err := v.deriveKey(salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt vault: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("unmarshal credentials: %w", err)
	}
	return &creds, nil
}

// Clear removes the vault file. Clearing an already-empty vault is not an
// error.
func (v *Vault) Clear() error {
	err := os.Remove(v.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
