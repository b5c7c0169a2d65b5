// Package aws provides the S3-backed fiber.Storage used for sessions when
// several HTTP replicas need to share anti-forgery tokens and flash data.
package aws

import (
	"inventory/pkg/config"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/s3/v2"
)

const sessionPrefix = "sessions/"

// S3 namespaces every key under a prefix of one bucket.
type S3 struct {
	bucket fiber.Storage
	prefix string
}

func NewSessionStorage(cfg *config.AppConfig) *S3 {
	bucket := s3.New(s3.Config{
		Endpoint: cfg.AWSEndpoint,
		Bucket:   cfg.AWSBucket,
		Region:   cfg.AWSDefaultRegion,
		Credentials: s3.Credentials{
			AccessKey:       cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return newPrefixed(bucket, sessionPrefix)
}

func newPrefixed(bucket fiber.Storage, prefix string) *S3 {
	return &S3{bucket: bucket, prefix: prefix}
}

func (s *S3) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	return s.bucket.Get(s.prefix + key)
}

func (s *S3) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.bucket.Set(s.prefix+key, val, exp)
}

func (s *S3) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.bucket.Delete(s.prefix + key)
}

// Reset is a no-op: the bucket may hold other data, and expired sessions are
// left to the bucket's lifecycle rules.
func (s *S3) Reset() error {
	return nil
}

func (s *S3) Close() error {
	return s.bucket.Close()
}
