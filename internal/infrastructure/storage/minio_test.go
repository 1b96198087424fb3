package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*MinIOClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	mc, err := minio.New(strings.TrimPrefix(server.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("test-key", "test-secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio.New: %v", err)
	}
	return &MinIOClient{client: mc, bucket: "call-audio"}, server
}

func acceptPut(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			http.Error(w, "unexpected", http.StatusBadRequest)
			return
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}
}

func TestUploadAudioPublicURL(t *testing.T) {
	client, _ := newTestClient(t, acceptPut(t))
	client.publicURL = "https://cdn.avinci.dev/"

	url, err := client.UploadAudio(context.Background(), "calls/abc/1-Priya.mp3", []byte("mp3"), "audio/mpeg")
	if err != nil {
		t.Fatalf("UploadAudio: %v", err)
	}
	if url != "https://cdn.avinci.dev/call-audio/calls/abc/1-Priya.mp3" {
		t.Errorf("url = %q", url)
	}
}

func TestUploadAudioPresignFallback(t *testing.T) {
	// when the bucket policy could not be made public, uploaded objects are
	// served through presigned URLs instead
	client, server := newTestClient(t, acceptPut(t))
	client.presignOnly = true

	url, err := client.UploadAudio(context.Background(), "calls/abc/1-Priya.mp3", []byte("mp3"), "audio/mpeg")
	if err != nil {
		t.Fatalf("UploadAudio: %v", err)
	}
	if !strings.HasPrefix(url, server.URL+"/call-audio/calls/abc/1-Priya.mp3") {
		t.Errorf("url = %q, want object path on %s", url, server.URL)
	}
	if !strings.Contains(url, "X-Amz-Signature") {
		t.Errorf("url %q is not presigned", url)
	}
}

func TestGetFileURLIsSignedWithExpiry(t *testing.T) {
	client, _ := newTestClient(t, nil)

	url, err := client.GetFileURL(context.Background(), "calls/abc/1-Priya.mp3", time.Hour)
	if err != nil {
		t.Fatalf("GetFileURL: %v", err)
	}
	if !strings.Contains(url, "X-Amz-Expires=3600") {
		t.Errorf("url %q missing expiry", url)
	}
	if !strings.Contains(url, "X-Amz-Signature") {
		t.Errorf("url %q is not signed", url)
	}
}
