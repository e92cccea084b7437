package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"dayflow-api/core/constants"
	"dayflow-api/core/errors"
	"dayflow-api/core/logger"
	"dayflow-api/modules/vault/entity"
	"dayflow-api/modules/vault/repository"

	"golang.org/x/crypto/pbkdf2"
)

// Vault custodies per-user OAuth credential bundles. Load returns (nil, nil)
// when no bundle exists; connection state is implicit in that absence.
type Vault interface {
	Save(ctx context.Context, userID string, bundle *entity.CredentialBundle) *errors.AppError
	Load(ctx context.Context, userID string) (*entity.CredentialBundle, *errors.AppError)
	Remove(ctx context.Context, userID string) *errors.AppError
}

type VaultService struct {
	store repository.CredentialStore
	gcm   cipher.AEAD
}

// NewVaultService derives the process-wide encryption key from the
// configured secret and a fixed salt. Fails when the secret is absent or the
// cipher cannot be constructed.
func NewVaultService(store repository.CredentialStore, secret string) (*VaultService, *errors.AppError) {
	if secret == "" {
		return nil, errors.NewAppError(errors.ErrConfiguration, "vault secret is not configured", nil)
	}

	key := pbkdf2.Key([]byte(secret), []byte(constants.VaultKeySalt),
		constants.VaultKDFIterations, constants.VaultKeyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrConfiguration, "invalid vault encryption key", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrConfiguration, "failed to initialize cipher", err)
	}

	return &VaultService{store: store, gcm: gcm}, nil
}

func (s *VaultService) Save(ctx context.Context, userID string, bundle *entity.CredentialBundle) *errors.AppError {
	plaintext, err := json.Marshal(bundle)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to serialize credential bundle", err)
	}

	ciphertext, err := s.encrypt(plaintext)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to encrypt credential bundle", err)
	}

	record := &entity.StoredCredentialRecord{
		UserID:     userID,
		Ciphertext: ciphertext,
	}
	if err := s.store.Upsert(ctx, record); err != nil {
		logger.Error("VaultService:Save:Upsert:Error", "error", err, "user_id", userID)
		return errors.NewAppError(errors.ErrStorage, "failed to persist credentials", err)
	}
	return nil
}

func (s *VaultService) Load(ctx context.Context, userID string) (*entity.CredentialBundle, *errors.AppError) {
	record, err := s.store.Get(ctx, userID)
	if err != nil {
		logger.Error("VaultService:Load:Get:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrStorage, "failed to read credentials", err)
	}
	if record == nil {
		return nil, nil
	}

	plaintext, err := s.decrypt(record.Ciphertext)
	if err != nil {
		logger.Error("VaultService:Load:Decrypt:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrCorruption, "stored credentials are unreadable, reauthorization required", err)
	}

	var bundle entity.CredentialBundle
	if err := json.Unmarshal(plaintext, &bundle); err != nil {
		logger.Error("VaultService:Load:Unmarshal:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrCorruption, "stored credentials are unreadable, reauthorization required", err)
	}
	return &bundle, nil
}

func (s *VaultService) Remove(ctx context.Context, userID string) *errors.AppError {
	if err := s.store.Delete(ctx, userID); err != nil {
		logger.Error("VaultService:Remove:Delete:Error", "error", err, "user_id", userID)
		return errors.NewAppError(errors.ErrStorage, "failed to delete credentials", err)
	}
	return nil
}

// encrypt seals with a fresh random nonce prefixed to the ciphertext, so the
// same bundle never produces the same output twice and decryption is
// self-contained.
func (s *VaultService) encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := s.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *VaultService) decrypt(ciphertext string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	if len(raw) < s.gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, sealed := raw[:s.gcm.NonceSize()], raw[s.gcm.NonceSize():]
	plaintext, err := s.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
