// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secrets

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jeranaias/deskchat-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// vaultMagic identifies the vault file format version.
var vaultMagic = []byte("DCV1")

// SaltSize is the size of the key-derivation salt.
const SaltSize = 16

// KeySize is the ChaCha20-Poly1305 key size.
const KeySize = chacha20poly1305.KeySize

// Argon2id parameters. OWASP baseline: 64 MiB memory, 1 pass, 4 lanes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotInitialized indicates no vault file exists yet.
	ErrNotInitialized = errors.New("vault not initialized")
	// ErrLocked indicates the vault has not been unlocked this session.
	ErrLocked = errors.New("vault is locked")
	// ErrDecryptionFailed indicates a wrong password or tampered file.
	ErrDecryptionFailed = errors.New("vault decryption failed: wrong password or corrupted file")
	// ErrInvalidFormat indicates the vault file is not recognized.
	ErrInvalidFormat = errors.New("invalid vault file format")
	// ErrTOTPNotEnrolled indicates TOTP verification was requested without enrollment.
	ErrTOTPNotEnrolled = errors.New("TOTP not enrolled")
)

// =============================================================================
// VAULT
// =============================================================================

// payload is the encrypted vault body.
type payload struct {
	APIKey     string `json:"api_key"`
	TOTPSecret string `json:"totp_secret,omitempty"`
}

// Vault stores the OpenRouter API key encrypted at rest.
//
// The file layout is magic | salt | nonce | ciphertext. The key is
// derived from the password with Argon2id and the body sealed with
// XChaCha20-Poly1305, so a wrong password surfaces as an
// authentication failure rather than garbage plaintext.
type Vault struct {
	mu   sync.Mutex
	path string

	// Session state, populated by Initialize/Unlock.
	key  []byte
	salt []byte
	data *payload
}

// DefaultVaultPath returns the default vault location (~/.deskchat/vault.bin).
func DefaultVaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".deskchat", "vault.bin"), nil
}

// New creates a vault handle for the given file path. The vault starts
// locked; call Initialize or Unlock before use.
func New(path string) *Vault {
	return &Vault{path: path}
}

// Exists reports whether a vault file is present on disk.
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.path)
	return err == nil
}

// Initialize creates a fresh vault encrypted under the given password.
// Fails if a vault file already exists.
func (v *Vault) Initialize(password string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.Exists() {
		return fmt.Errorf("vault already exists at %s", v.path)
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	v.salt = salt
	v.key = deriveKey(password, salt)
	v.data = &payload{}

	return v.save()
}

// Unlock opens an existing vault with the given password.
func (v *Vault) Unlock(password string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read vault: %w", err)
	}

	minLen := len(vaultMagic) + SaltSize + chacha20poly1305.NonceSizeX
	if len(raw) < minLen || string(raw[:len(vaultMagic)]) != string(vaultMagic) {
		return ErrInvalidFormat
	}

	salt := raw[len(vaultMagic) : len(vaultMagic)+SaltSize]
	nonce := raw[len(vaultMagic)+SaltSize : minLen]
	ciphertext := raw[minLen:]

	key := deriveKey(password, salt)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		ZeroBytes(key)
		return err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, vaultMagic)
	if err != nil {
		ZeroBytes(key)
		return ErrDecryptionFailed
	}
	defer ZeroBytes(plaintext)

	var data payload
	if err := json.Unmarshal(plaintext, &data); err != nil {
		ZeroBytes(key)
		return ErrInvalidFormat
	}

	v.salt = append([]byte(nil), salt...)
	v.key = key
	v.data = &data
	return nil
}

// Lock discards the session key and decrypted state.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()

	ZeroBytes(v.key)
	v.key = nil
	v.salt = nil
	v.data = nil
}

// Unlocked reports whether the vault is open this session.
func (v *Vault) Unlocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.data != nil
}

// =============================================================================
// API KEY
// =============================================================================

// StoreAPIKey saves the API key into the encrypted vault.
func (v *Vault) StoreAPIKey(apiKey string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.data == nil {
		return ErrLocked
	}
	v.data.APIKey = apiKey
	return v.save()
}

// APIKey returns the stored API key.
func (v *Vault) APIKey() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.data == nil {
		return "", ErrLocked
	}
	return v.data.APIKey, nil
}

// =============================================================================
// TOTP GATE
// =============================================================================

// EnrollTOTP generates a TOTP secret for the vault and returns the
// otpauth:// provisioning URL for authenticator apps.
func (v *Vault) EnrollTOTP(account string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.data == nil {
		return "", ErrLocked
	}

	opts := totp.GenerateOpts{
		Issuer:      "deskchat",
		AccountName: account,
	}
	key, err := totp.Generate(opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	v.data.TOTPSecret = key.Secret()
	if err := v.save(); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// TOTPEnrolled reports whether a TOTP secret is stored.
func (v *Vault) TOTPEnrolled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.data != nil && v.data.TOTPSecret != ""
}

// VerifyTOTP checks a one-time code against the enrolled secret.
func (v *Vault) VerifyTOTP(code string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.data == nil {
		return ErrLocked
	}
	if v.data.TOTPSecret == "" {
		return ErrTOTPNotEnrolled
	}
	if !totp.Validate(code, v.data.TOTPSecret) {
		return errors.New("invalid TOTP code")
	}
	return nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// save seals the payload and writes the vault file atomically.
// Caller must hold v.mu.
func (v *Vault) save() error {
	if v.data == nil || v.key == nil {
		return ErrLocked
	}

	plaintext, err := json.Marshal(v.data)
	if err != nil {
		return fmt.Errorf("failed to encode vault payload: %w", err)
	}
	defer ZeroBytes(plaintext)

	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, vaultMagic)

	out := make([]byte, 0, len(vaultMagic)+SaltSize+len(nonce)+len(ciphertext))
	out = append(out, vaultMagic...)
	out = append(out, v.salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	if err := os.MkdirAll(filepath.Dir(v.path), 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	// SECURITY: 0600, the vault holds the API key.
	if err := util.AtomicWriteFile(v.path, out, 0600); err != nil {
		return fmt.Errorf("failed to write vault: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// deriveKey derives the vault key from a password with Argon2id.
func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, KeySize)
}

// ZeroBytes zeros sensitive byte slices to limit memory disclosure.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
