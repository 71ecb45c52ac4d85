package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
)

// ContentType of archived letters.
const ContentType = "application/pdf"

// ReferenceMetadata is the object metadata key holding the letter reference.
const ReferenceMetadata = "reference"

// ObjectAPI is the subset of the S3 client used by Archive.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Archive stores letters in a bucket.
type Archive struct {
	client    ObjectAPI
	presigner *s3.PresignClient
	cfg       Config
	now       func() time.Time
	newID     func() uuid.UUID
}

var _ dispatch.Archiver = (*Archive)(nil)

// Option configures an Archive.
type Option func(*Archive)

// WithClient replaces the S3 client, for tests and custom transports.
func WithClient(c ObjectAPI) Option {
	return func(a *Archive) {
		if c != nil {
			a.client = c
		}
	}
}

// WithClock overrides the time source used for object keys.
func WithClock(now func() time.Time) Option {
	return func(a *Archive) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator overrides how object names are generated.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(a *Archive) {
		if gen != nil {
			a.newID = gen
		}
	}
}

// New creates an Archive for cfg.
func New(cfg Config, opts ...Option) (*Archive, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	a := &Archive{
		client:    client,
		presigner: s3.NewPresignClient(client),
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Archive uploads doc for reference. It implements dispatch.Archiver.
func (a *Archive) Archive(ctx context.Context, reference string, doc io.Reader, size int64) error {
	_, err := a.Put(ctx, reference, doc, size)
	return err
}

// Put uploads doc and returns its object key.
func (a *Archive) Put(ctx context.Context, reference string, doc io.Reader, size int64) (string, error) {
	if size <= 0 {
		return "", ErrEmptyDocument
	}

	body, ok := doc.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(doc)
		if err != nil {
			return "", fmt.Errorf("%w: reading document: %v", ErrUploadFailed, err)
		}
		body = bytes.NewReader(data)
	}

	key := a.Key(reference, a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ContentType),
		ACL:           types.ObjectCannedACLPrivate,
		Metadata:      map[string]string{ReferenceMetadata: reference},
	})
	if err != nil {
		return "", wrapS3Error(err, ErrUploadFailed)
	}
	return key, nil
}

// Get downloads an archived letter. The caller closes the reader.
func (a *Archive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}
	return out.Body, nil
}

// URL returns a signed download URL for key.
func (a *Archive) URL(ctx context.Context, key string) (string, error) {
	filename := path.Base(key)
	res, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(a.cfg.Bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
		ResponseContentType:        aws.String(ContentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = a.cfg.SignedURLExpiry
	})
	if err != nil {
		return "", wrapS3Error(err, ErrPresignFailed)
	}
	return res.URL, nil
}

// Key builds the object key for a letter archived at t.
func (a *Archive) Key(reference string, t time.Time) string {
	t = t.UTC()
	return strings.Join([]string{
		sanitizePathSegment(a.cfg.Prefix),
		t.Format("2006"), t.Format("01"), t.Format("02"),
		sanitizePathSegment(reference),
		a.newID().String() + ".pdf",
	}, "/")
}

var unsafeSegment = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizePathSegment makes s safe as a single key segment.
func sanitizePathSegment(s string) string {
	s = strings.Trim(s, " /\\")
	s = strings.ReplaceAll(s, "..", "")
	s = unsafeSegment.ReplaceAllString(s, "_")
	if s == "" {
		s = "_"
	}
	return url.PathEscape(s)
}
