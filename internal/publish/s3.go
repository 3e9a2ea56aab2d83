// ABOUTME: Uploads dashboard snapshots to S3-compatible object storage.
// ABOUTME: Each publish gets its own prefix so snapshots never overwrite each other.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxConcurrentUploads bounds parallel PutObject calls.
const MaxConcurrentUploads = 4

// Config holds S3 connection settings.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional; set for MinIO and other S3-compatible stores
	PathStyle bool
}

// Uploader is the subset of the S3 client used for publishing.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads snapshots to one bucket.
type Publisher struct {
	client Uploader
	bucket string
	prefix string
	logger *log.Logger
}

// Snapshot describes an uploaded snapshot.
type Snapshot struct {
	ID     string
	Prefix string
	Keys   []string
}

// IndexKey returns the object key of the snapshot page.
func (s *Snapshot) IndexKey() string {
	return path.Join(s.Prefix, IndexFile)
}

// New creates a Publisher using the default AWS credential chain.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix, logger), nil
}

// NewWithClient creates a Publisher around an existing client.
func NewWithClient(client Uploader, bucket, prefix string, logger *log.Logger) *Publisher {
	return &Publisher{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Publish uploads files under <prefix>/<snapshot id>/.
func (p *Publisher) Publish(ctx context.Context, files []File) (*Snapshot, error) {
	id := uuid.New().String()
	snap := &Snapshot{ID: id, Prefix: path.Join(p.prefix, id)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentUploads)
	for _, f := range files {
		key := path.Join(snap.Prefix, f.Name)
		snap.Keys = append(snap.Keys, key)
		g.Go(func() error {
			_, err := p.client.PutObject(gctx, &s3.PutObjectInput{
				Bucket:      aws.String(p.bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(f.Data),
				ContentType: aws.String(f.ContentType),
			})
			if err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			p.logger.Debug("uploaded", "bucket", p.bucket, "key", key, "bytes", len(f.Data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info("published snapshot", "bucket", p.bucket, "prefix", snap.Prefix, "files", len(files))
	return snap, nil
}
