package repository

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"time"

	"dayflow-api/core/config"
	"dayflow-api/core/logger"
	"dayflow-api/modules/vault/entity"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const s3KeyPrefix = "credentials/"

// s3CredentialStore keeps one JSON object per user. An S3 PutObject is an
// atomic whole-object replace, which is exactly the vault's write contract.
type s3CredentialStore struct {
	client *s3.Client
	bucket string
}

func NewS3CredentialStore(cfg config.VaultConfig) CredentialStore {
	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")
	}
	return &s3CredentialStore{
		client: s3.New(opts),
		bucket: cfg.S3Bucket,
	}
}

func (s *s3CredentialStore) Upsert(ctx context.Context, record *entity.StoredCredentialRecord) error {
	record.UpdatedAt = time.Now().UTC()
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3KeyPrefix + record.UserID),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logger.Error("S3CredentialStore:Upsert:Error", "error", err, "user_id", record.UserID)
		return err
	}
	return nil
}

func (s *s3CredentialStore) Get(ctx context.Context, userID string) (*entity.StoredCredentialRecord, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + userID),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, nil
		}
		logger.Error("S3CredentialStore:Get:Error", "error", err, "user_id", userID)
		return nil, err
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}

	var record entity.StoredCredentialRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *s3CredentialStore) Delete(ctx context.Context, userID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + userID),
	})
	if err != nil {
		logger.Error("S3CredentialStore:Delete:Error", "error", err, "user_id", userID)
		return err
	}
	return nil
}
