package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	puts   []*s3.PutObjectInput
	bodies []string
	failOn string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if aws.ToString(params.Key) == f.failOn {
		return nil, errors.New("access denied")
	}
	body, _ := io.ReadAll(params.Body)
	f.puts = append(f.puts, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(n), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestUpload(t *testing.T) {
	client := &fakeS3{}
	u := &S3Uploader{Client: client, Bucket: "outputs", CDNURL: "https://cdn.example.com/"}
	paths := writeFiles(t, "home.framed.scroll.gif", "home.framed.1.png")

	results, err := u.Upload(context.Background(), paths, "home")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].URL != "https://cdn.example.com/home/home.framed.scroll.gif" {
		t.Errorf("Unexpected URL %s", results[0].URL)
	}

	first := client.puts[0]
	if aws.ToString(first.ContentType) != "image/gif" || aws.ToString(client.puts[1].ContentType) != "image/png" {
		t.Errorf("Unexpected content types %s, %s", aws.ToString(first.ContentType), aws.ToString(client.puts[1].ContentType))
	}
	if aws.ToString(first.CacheControl) != CacheControl || aws.ToString(first.Bucket) != "outputs" {
		t.Errorf("Unexpected put %+v", first)
	}
	if client.bodies[0] != "home.framed.scroll.gif" {
		t.Errorf("Unexpected body %q", client.bodies[0])
	}
}

func TestUploadStopsOnFailure(t *testing.T) {
	client := &fakeS3{failOn: "home/b.png"}
	u := &S3Uploader{Client: client, Bucket: "outputs"}
	paths := writeFiles(t, "a.png", "b.png", "c.png")

	results, err := u.Upload(context.Background(), paths, "home")
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("Expected ErrUploadFailed, got %v", err)
	}
	if len(results) != 1 || len(client.puts) != 1 {
		t.Errorf("Expected upload to stop after the first file, got %d results, %d puts", len(results), len(client.puts))
	}
}

func TestPublicURLWithoutCDN(t *testing.T) {
	u := &S3Uploader{Bucket: "outputs"}
	if got := u.publicURL("home/a.png"); got != "https://outputs.s3.amazonaws.com/home/a.png" {
		t.Errorf("Unexpected URL %s", got)
	}
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	if _, err := NewS3Uploader(context.Background(), Settings{}); err == nil {
		t.Error("Expected error without bucket")
	}
}
