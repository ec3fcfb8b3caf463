package utils

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3ImageStorePutImage(t *testing.T) {
	client := &fakeS3{}
	store := NewS3ImageStore(client, "scans-bucket", "https://cdn.example.com/")

	url, err := store.PutImage(context.Background(), "01HZX", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example.com/scans/01HZX.png" {
		t.Errorf("unexpected url %q", url)
	}
	if *client.input.Bucket != "scans-bucket" || *client.input.Key != "scans/01HZX.png" {
		t.Errorf("unexpected bucket/key %q/%q", *client.input.Bucket, *client.input.Key)
	}
	if string(client.body) != "png-bytes" {
		t.Errorf("unexpected body %q", client.body)
	}
}

func TestS3ImageStoreWithoutCDN(t *testing.T) {
	store := NewS3ImageStore(&fakeS3{}, "b", "")
	url, err := store.PutImage(context.Background(), "id", "image/jpeg", []byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "s3://b/scans/id.jpg" {
		t.Errorf("unexpected url %q", url)
	}
}

func TestS3ImageStoreError(t *testing.T) {
	boom := errors.New("boom")
	store := NewS3ImageStore(&fakeS3{err: boom}, "b", "")
	if _, err := store.PutImage(context.Background(), "id", "image/png", nil); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestDecodeDataURI(t *testing.T) {
	ct, data, err := DecodeDataURI("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct != "image/png" || string(data) != "hello" {
		t.Errorf("got %q %q", ct, data)
	}

	for _, bad := range []string{"", "hello", "data:image/png,aGVsbG8=", "data:image/png;base64,***"} {
		if _, _, err := DecodeDataURI(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestScanIDs(t *testing.T) {
	id := NewScanID()
	if !IsScanID(id) {
		t.Errorf("expected %q to be a scan id", id)
	}
	if IsScanID("not-an-id") {
		t.Error("expected garbage to be rejected")
	}
}
