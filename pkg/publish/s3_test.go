package publish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/yeisme/appforge/pkg/configs"
	"github.com/yeisme/appforge/pkg/models"
)

type recordingPutter struct {
	keys []string
	acl  []string
	fail bool
}

func (r *recordingPutter) FPutObject(_ context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if r.fail {
		return minio.UploadInfo{}, errors.New("access denied")
	}
	r.keys = append(r.keys, bucket+":"+object)
	r.acl = append(r.acl, opts.UserMetadata["x-amz-acl"])
	return minio.UploadInfo{Bucket: bucket, Key: object}, nil
}

func TestObjectKey(t *testing.T) {
	prefix := ExpandPrefix("{{name}}/{{version}}/", "demo", "1.0.0")
	if prefix != "demo/1.0.0" {
		t.Fatalf("prefix = %q", prefix)
	}
	got := ObjectKey(prefix, models.PlatformWin32, models.ArchX64, `C:\out\make\squirrel\win32\x64\demoSetup.exe`)
	if got != "demo/1.0.0/win32/x64/demoSetup.exe" {
		t.Errorf("ObjectKey = %q", got)
	}
	if got := ObjectKey("", models.PlatformLinux, models.ArchARM64, "/out/a.deb"); got != "linux/arm64/a.deb" {
		t.Errorf("ObjectKey without prefix = %q", got)
	}
}

func TestS3_Publish(t *testing.T) {
	putter := &recordingPutter{}
	s := &S3{
		cfg:    configs.S3Config{Bucket: "releases", Prefix: "{{name}}/{{version}}", Public: true},
		client: putter,
	}
	err := s.Publish(context.Background(), Request{
		AppName: "demo",
		Version: "2.0.0",
		Results: []models.MakerResult{
			{Maker: "zip", Platform: models.PlatformDarwin, Arch: models.ArchARM64, Artifacts: []string{"/out/make/zip/darwin/arm64/demo.zip"}},
			{Maker: "deb", Platform: models.PlatformLinux, Arch: models.ArchX64, Artifacts: []string{"/out/make/deb/linux/x64/demo.deb"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "releases:demo/2.0.0/darwin/arm64/demo.zip|releases:demo/2.0.0/linux/x64/demo.deb"
	if got := strings.Join(putter.keys, "|"); got != want {
		t.Errorf("keys = %s, want %s", got, want)
	}
	if putter.acl[0] != "public-read" {
		t.Errorf("public uploads should set an acl, got %q", putter.acl[0])
	}
}

func TestS3_PublishError(t *testing.T) {
	s := &S3{cfg: configs.S3Config{Bucket: "b"}, client: &recordingPutter{fail: true}}
	err := s.Publish(context.Background(), Request{Results: []models.MakerResult{
		{Platform: models.PlatformLinux, Arch: models.ArchX64, Artifacts: []string{"/out/a.rpm"}},
	}})
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestNewS3_RequiresConfig(t *testing.T) {
	if _, err := NewS3(configs.S3Config{}); err == nil {
		t.Fatal("expected error for empty config")
	}
}
