package storage

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Opts struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// S3Store S3 兼容对象存储（MinIO / AWS / Supabase Storage）。
type S3Store struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewS3(o S3Opts) (*S3Store, error) {
	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(o.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if o.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + o.Endpoint
	}
	return &S3Store{client: client, bucket: o.Bucket, publicBase: base}, nil
}

func (s *S3Store) Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	key := ObjectKey(filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", err
	}
	return key, s.publicBase + "/" + s.bucket + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
