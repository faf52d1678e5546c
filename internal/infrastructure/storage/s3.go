package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config は S3 互換ストレージへの接続設定。MinIO を想定しているが
// エンドポイントを差し替えれば本家 S3 でも動く。
type Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	BaseEndpoint  string
	PublicBaseURL string
	PresignTTL    time.Duration
}

// Uploader は提出書類のアップロード用に期限付き PUT URL を発行する。
// バイト列の転送はクライアントとストレージの間で直接行われ、API は
// URL の発行と参照 URL の組み立てだけを担う。
type Uploader struct {
	cfg Config
}

// PresignedUpload は 1 回のアップロードに必要な情報。
type PresignedUpload struct {
	Key       string
	UploadURL string
	PublicURL string
	ExpiresIn time.Duration
}

// NewUploader はアップローダを構築する。
func NewUploader(cfg Config) *Uploader {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	return &Uploader{cfg: cfg}
}

// PresignPut は書類 1 点分の期限付き PUT URL を発行する。オブジェクト
// キーは利用者と書類種別で階層化し、末尾の UUID で衝突を避ける。
func (u *Uploader) PresignPut(ctx context.Context, userID, documentSlot string) (*PresignedUpload, error) {
	presignClient, err := u.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	key := buildStorageKey(userID, documentSlot)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(u.cfg.PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("アップロードURLの発行に失敗: %w", err)
	}

	return &PresignedUpload{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: u.cfg.PublicBaseURL + "/" + key,
		ExpiresIn: u.cfg.PresignTTL,
	}, nil
}

func (u *Uploader) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(u.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKey,
			u.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("ストレージ設定の読み込みに失敗: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})
	return s3.NewPresignClient(client), nil
}

func buildStorageKey(userID, documentSlot string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("registrations/%s/%s/%d%02d/%v", userID, documentSlot, now.Year(), int(now.Month()), uuid.New())
}
