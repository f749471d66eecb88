package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	cos "github.com/tencentyun/cos-go-sdk-v5"

	"github.com/RakanBA/AYAN/internal/recognition"
)

var ErrEmptyImage = errors.New("image bytes is empty")

var fileNamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Archiver keeps a copy of a successfully identified capture and returns
// where it can be fetched.
type Archiver interface {
	Archive(ctx context.Context, img recognition.Image) (string, error)
}

// Nop discards captures.
type Nop struct{}

func (Nop) Archive(context.Context, recognition.Image) (string, error) {
	return "", nil
}

type COSConfig struct {
	SecretID     string
	SecretKey    string
	Region       string
	BucketName   string
	PublicDomain string
	// BucketURL overrides the bucket endpoint derived from BucketName and
	// Region.
	BucketURL string
}

func (c COSConfig) Enabled() bool {
	return strings.TrimSpace(c.SecretID) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.BucketName) != "" &&
		strings.TrimSpace(c.PublicDomain) != ""
}

type COSArchiver struct {
	client       *cos.Client
	publicDomain string
	now          func() time.Time
}

func NewCOS(cfg COSConfig) (*COSArchiver, error) {
	if !cfg.Enabled() {
		return nil, errors.New("cos archive is not configured")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "ap-hongkong"
	}
	rawBucketURL := strings.TrimSpace(cfg.BucketURL)
	if rawBucketURL == "" {
		rawBucketURL = fmt.Sprintf("https://%s.cos.%s.myqcloud.com", strings.TrimSpace(cfg.BucketName), region)
	}
	bucketURL, err := url.Parse(rawBucketURL)
	if err != nil {
		return nil, err
	}
	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, &http.Client{
		Timeout: 30 * time.Second,
		Transport: &cos.AuthorizationTransport{
			SecretID:  strings.TrimSpace(cfg.SecretID),
			SecretKey: strings.TrimSpace(cfg.SecretKey),
		},
	})
	return &COSArchiver{
		client:       client,
		publicDomain: strings.TrimRight(strings.TrimSpace(cfg.PublicDomain), "/"),
		now:          time.Now,
	}, nil
}

func (a *COSArchiver) Archive(ctx context.Context, img recognition.Image) (string, error) {
	if img.Empty() {
		return "", ErrEmptyImage
	}
	key := objectKey(a.now(), img.FileName)
	var opt *cos.ObjectPutOptions
	if mime := strings.TrimSpace(img.MIMEType); mime != "" {
		opt = &cos.ObjectPutOptions{
			ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: mime},
		}
	}
	if _, err := a.client.Object.Put(ctx, key, bytes.NewReader(img.Data), opt); err != nil {
		return "", err
	}
	return a.publicDomain + "/" + key, nil
}

func objectKey(now time.Time, fileName string) string {
	return fmt.Sprintf("captures/%s/%s_%s", now.UTC().Format("2006-01-02"), uuid.NewString(), sanitizeFileName(fileName))
}

func sanitizeFileName(fileName string) string {
	base := strings.TrimSpace(filepath.Base(fileName))
	if base == "" || base == "." || base == "/" {
		base = recognition.DefaultFileName
	}
	return fileNamePattern.ReplaceAllString(base, "_")
}
