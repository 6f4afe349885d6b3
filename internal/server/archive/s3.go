// Package archive copies issued certificates to S3-compatible object
// storage and hands out presigned download links for them.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

type Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	URLExpiry    time.Duration
}

type S3Archive struct {
	cfg Config

	mu      sync.Mutex
	client  *s3.Client
	presign *s3.PresignClient
}

func NewS3Archive(cfg Config) *S3Archive {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}
	return &S3Archive{cfg: cfg}
}

func (a *S3Archive) clients(ctx context.Context) (*s3.Client, *s3.PresignClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, a.presign, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.cfg.AccessKey,
			a.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if a.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(a.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	a.client = client
	a.presign = newS3PresignClient(client)
	return a.client, a.presign, nil
}

// Key is the object key prefix for a certificate.
func Key(cert *models.Certificate) string {
	return fmt.Sprintf("certificates/%s/%s/%s", cert.Body.JobID, cert.Body.DeviceID, cert.ID)
}

// Store uploads the signed certificate as JSON and its text report.
func (a *S3Archive) Store(ctx context.Context, cert *models.Certificate, report string) error {
	client, _, err := a.clients(ctx)
	if err != nil {
		return err
	}

	doc, err := json.MarshalIndent(cert, "", "  ")
	if err != nil {
		return err
	}

	objects := []struct {
		key, contentType string
		body             []byte
	}{
		{Key(cert) + ".json", "application/json", doc},
		{Key(cert) + ".txt", "text/plain; charset=utf-8", []byte(report)},
	}
	for _, o := range objects {
		_, err := putObject(client, ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.cfg.Bucket),
			Key:         aws.String(o.key),
			Body:        bytes.NewReader(o.body),
			ContentType: aws.String(o.contentType),
		})
		if err != nil {
			return fmt.Errorf("put %s: %w", o.key, err)
		}
	}
	return nil
}

// DownloadURL presigns a GET for the certificate's JSON document.
func (a *S3Archive) DownloadURL(ctx context.Context, cert *models.Certificate) (string, error) {
	_, presign, err := a.clients(ctx)
	if err != nil {
		return "", err
	}

	bucket := a.cfg.Bucket
	key := Key(cert) + ".json"

	req, err := presignGetObject(presign, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(a.cfg.URLExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
