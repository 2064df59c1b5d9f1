package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/chachabrian/sewo-backend/internal/config"
	"github.com/google/uuid"
)

// ImageStore persists rendered voucher images and returns their public URL.
type ImageStore interface {
	UploadQRImage(ctx context.Context, bookingID uint, png []byte) (string, error)
}

// Storage uploads voucher images to S3.
type Storage struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	region   string
}

func NewStorage(cfg config.AWSConfig) (*Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Storage{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
	}, nil
}

func (s *Storage) UploadQRImage(ctx context.Context, bookingID uint, png []byte) (string, error) {
	key := fmt.Sprintf("qrcodes/booking-%d-%s.png", bookingID, uuid.NewString())

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
