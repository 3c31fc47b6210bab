package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/store"
)

// ErrUpload is returned when a snapshot could not be written.
var ErrUpload = cerrors.New("E140")

// PutObjectAPI is the subset of the S3 client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot is a stored copy of a store's state.
type Snapshot struct {
	Key   string    `json:"key"`
	Taken time.Time `json:"taken"`
	State any       `json:"state"`
}

// Option configures an S3Sink.
type Option func(*S3Sink)

// WithLogger sets the sink's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *S3Sink) {
		s.logger = logger
	}
}

// S3Sink writes snapshots as JSON objects keyed by ULID, so keys sort by
// the time they were taken.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Sink creates a sink writing to bucket under prefix.
func NewS3Sink(client PutObjectAPI, bucket, prefix string, opts ...Option) *S3Sink {
	s := &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Save reads the current state of st and uploads it.
func (s *S3Sink) Save(ctx context.Context, st store.Store) (Snapshot, error) {
	id := ulid.Make()
	snap := Snapshot{
		Key:   path.Join(s.prefix, id.String()+".json"),
		Taken: ulid.Time(id.Time()).UTC(),
		State: st.GetState(),
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, cerrors.New("E140").
			WithMessage("snapshot state is not JSON encodable").
			Wrap(err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(snap.Key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"snapshot-time": snap.Taken.Format(time.RFC3339),
		},
	})
	if err != nil {
		return Snapshot{}, cerrors.New("E140").
			WithMessage("put s3://%s/%s failed", s.bucket, snap.Key).
			Wrap(err)
	}

	s.logger.Info("snapshot saved", "bucket", s.bucket, "key", snap.Key, "bytes", len(body))
	return snap, nil
}

// ClientConfig configures NewClient.
type ClientConfig struct {
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible stores. Setting
	// it switches to path-style addressing.
	Endpoint string

	// AccessKeyID, SecretAccessKey and SessionToken set static credentials.
	// When AccessKeyID is empty the SDK's default chain is used.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewClient builds an S3 client from the SDK's shared configuration
// (environment, shared config files, instance roles) with cfg applied on
// top.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, cerrors.New("E140").
			WithMessage("could not load AWS configuration").
			Wrap(err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
