package publish

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/appforge/pkg/configs"
)

// objectPutter *minio.Client 中发布需要的部分
type objectPutter interface {
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3 上传到 S3 兼容对象存储
type S3 struct {
	cfg    configs.S3Config
	client objectPutter
}

var _ Publisher = (*S3)(nil)

// NewS3 根据配置创建 S3 publisher
func NewS3(cfg configs.S3Config) (*S3, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("s3 publisher: publish.s3.endpoint and publish.s3.bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 publisher: %w", err)
	}
	return &S3{cfg: cfg, client: client}, nil
}

// Name 实现 Publisher
func (s *S3) Name() string { return "s3" }

// Publish 依次上传所有产物
func (s *S3) Publish(ctx context.Context, req Request) error {
	prefix := ExpandPrefix(s.cfg.Prefix, req.AppName, req.Version)
	for _, res := range req.Results {
		for _, artifact := range res.Artifacts {
			key := ObjectKey(prefix, res.Platform, res.Arch, artifact)
			opts := minio.PutObjectOptions{ContentType: contentType(artifact)}
			if s.cfg.Public {
				opts.UserMetadata = map[string]string{"x-amz-acl": "public-read"}
			}
			info, err := s.client.FPutObject(ctx, s.cfg.Bucket, key, artifact, opts)
			if err != nil {
				return fmt.Errorf("upload %s to %s/%s: %w", artifact, s.cfg.Bucket, key, err)
			}
			log.Info().Str("bucket", s.cfg.Bucket).Str("key", key).Int64("size", info.Size).Msg("artifact uploaded")
		}
	}
	return nil
}

func contentType(file string) string {
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
