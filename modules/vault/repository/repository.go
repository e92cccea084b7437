package repository

import (
	"context"
	"database/sql"

	"dayflow-api/core/database"
	"dayflow-api/core/logger"
	"dayflow-api/modules/vault/entity"
)

// CredentialStore is the key-value record store behind the vault. Upsert is
// an atomic whole-record replace; Get returns (nil, nil) when no record
// exists for the user.
type CredentialStore interface {
	Upsert(ctx context.Context, record *entity.StoredCredentialRecord) error
	Get(ctx context.Context, userID string) (*entity.StoredCredentialRecord, error)
	Delete(ctx context.Context, userID string) error
}

type credentialRepository struct {
	db database.IDatabase
}

func NewCredentialRepository(db database.IDatabase) CredentialStore {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Upsert(ctx context.Context, record *entity.StoredCredentialRecord) error {
	query := `
		INSERT INTO calendar_credentials (user_id, ciphertext, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET ciphertext = $2, updated_at = NOW()
	`
	err := r.db.ExecContext(ctx, query, record.UserID, record.Ciphertext)
	if err != nil {
		logger.Error("CredentialRepository:Upsert:Error", "error", err, "user_id", record.UserID)
		return err
	}
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, userID string) (*entity.StoredCredentialRecord, error) {
	var record entity.StoredCredentialRecord
	query := `
		SELECT user_id, ciphertext, updated_at
		FROM calendar_credentials
		WHERE user_id = $1
	`
	err := r.db.GetContext(ctx, &record, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CredentialRepository:Get:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return &record, nil
}

func (r *credentialRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM calendar_credentials WHERE user_id = $1`
	err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		logger.Error("CredentialRepository:Delete:Error", "error", err, "user_id", userID)
		return err
	}
	return nil
}
