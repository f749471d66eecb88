package recognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var ErrInvalidResponse = errors.New("invalid classifier response")

type Config struct {
	BuildingURL string
	LandmarkURL string
	InfoURL     string
	Timeout     time.Duration
}

// Prediction is a classifier verdict.
type Prediction struct {
	Class      string
	Confidence float64
}

// Client talks to the remote classifiers and the enrichment lookup.
type Client struct {
	buildingURL string
	landmarkURL string
	infoURL     string
	httpClient  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	buildingURL := strings.TrimSpace(cfg.BuildingURL)
	if buildingURL == "" {
		return nil, errors.New("building classifier url is required")
	}
	landmarkURL := strings.TrimSpace(cfg.LandmarkURL)
	if landmarkURL == "" {
		return nil, errors.New("landmark classifier url is required")
	}
	for _, raw := range []string{buildingURL, landmarkURL, cfg.InfoURL} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, err := url.ParseRequestURI(strings.TrimSpace(raw)); err != nil {
			return nil, fmt.Errorf("invalid endpoint %q: %w", raw, err)
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		buildingURL: buildingURL,
		landmarkURL: landmarkURL,
		infoURL:     strings.TrimSpace(cfg.InfoURL),
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ClassifierURLs returns the two primary endpoints.
func (c *Client) ClassifierURLs() []string {
	return []string{c.buildingURL, c.landmarkURL}
}

func (c *Client) HasInfo() bool {
	return c.infoURL != ""
}

func (c *Client) ClassifyBuilding(ctx context.Context, img Image) (Prediction, error) {
	raw, err := c.postImage(ctx, c.buildingURL, img)
	if err != nil {
		return Prediction{}, err
	}
	return parsePrediction(raw)
}

func (c *Client) ClassifyLandmark(ctx context.Context, img Image) (Prediction, error) {
	raw, err := c.postImage(ctx, c.landmarkURL, img)
	if err != nil {
		return Prediction{}, err
	}
	return parsePrediction(raw)
}

// LookupInfo fetches the enrichment record for label.
func (c *Client) LookupInfo(ctx context.Context, label string) ([]byte, error) {
	if c.infoURL == "" {
		return nil, errors.New("info endpoint is not configured")
	}
	endpoint, err := url.Parse(c.infoURL)
	if err != nil {
		return nil, err
	}
	query := endpoint.Query()
	query.Set("name", label)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) postImage(ctx context.Context, endpoint string, img Image) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fileName := strings.TrimSpace(img.FileName)
	if fileName == "" {
		fileName = DefaultFileName
	}
	mimeType := strings.TrimSpace(img.MIMEType)
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed, status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}

func parsePrediction(raw []byte) (Prediction, error) {
	if !gjson.ValidBytes(raw) {
		return Prediction{}, fmt.Errorf("%w: body is not json", ErrInvalidResponse)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Prediction{}, fmt.Errorf("%w: body is not an object", ErrInvalidResponse)
	}
	class := doc.Get("predicted_class")
	if !class.Exists() {
		return Prediction{}, fmt.Errorf("%w: missing predicted_class", ErrInvalidResponse)
	}
	confidence, _ := number(doc.Get("confidence"))
	return Prediction{
		Class:      strings.TrimSpace(class.String()),
		Confidence: confidence,
	}, nil
}

// number reads a finite JSON number that may also arrive as a numeric
// string.
func number(r gjson.Result) (float64, bool) {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		v = parsed
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
