// Package upload publishes generated files to S3 behind a CDN.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrUploadFailed wraps every upload error. Upload failures stop the run.
var ErrUploadFailed = errors.New("upload failed")

// CacheControl is sent with every object; outputs are immutable once published.
const CacheControl = "public, max-age=31536000"

// Result maps a local file to its public URL.
type Result struct {
	Local string
	URL   string
}

type Uploader interface {
	Upload(ctx context.Context, paths []string, folder string) ([]Result, error)
}

// PutObjectAPI is the part of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Settings select the bucket and how its objects are addressed publicly.
type Settings struct {
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
	CDNURL  string `yaml:"cdn_url"`
}

type S3Uploader struct {
	Client PutObjectAPI
	Bucket string
	CDNURL string
}

// NewS3Uploader loads AWS credentials from the environment, shared config
// and, when set, the named profile (SSO profiles included).
func NewS3Uploader(ctx context.Context, s Settings) (*S3Uploader, error) {
	if s.Bucket == "" {
		return nil, fmt.Errorf("upload bucket is not configured")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Region))
	}
	if s.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(s.Profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return &S3Uploader{
		Client: s3.NewFromConfig(cfg),
		Bucket: s.Bucket,
		CDNURL: s.CDNURL,
	}, nil
}

// ContentType is chosen from the file extension.
func ContentType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return "image/gif"
	}
	return "image/png"
}

// Key is the object key of path inside folder.
func Key(folder, path string) string {
	return folder + "/" + filepath.Base(path)
}

func (u *S3Uploader) publicURL(key string) string {
	if u.CDNURL == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.Bucket, key)
	}
	return strings.TrimRight(u.CDNURL, "/") + "/" + key
}

// Upload sends paths one by one and stops at the first failure.
func (u *S3Uploader) Upload(ctx context.Context, paths []string, folder string) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		key := Key(folder, path)
		log.Printf("[*] Uploading %s...", filepath.Base(path))

		if err := u.put(ctx, path, key); err != nil {
			return results, fmt.Errorf("%w: %s: %v", ErrUploadFailed, path, err)
		}

		url := u.publicURL(key)
		log.Printf("[+] Uploaded: %s", url)
		results = append(results, Result{Local: path, URL: url})
	}
	return results, nil
}

func (u *S3Uploader) put(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.Bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(ContentType(path)),
		CacheControl: aws.String(CacheControl),
	})
	return err
}
