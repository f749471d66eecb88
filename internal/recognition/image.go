package recognition

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const DefaultFileName = "capture.jpg"

var ErrInvalidDataURL = errors.New("invalid data url")

// Image is an encoded capture as delivered by the camera collaborator.
type Image struct {
	Data     []byte
	MIMEType string
	FileName string
}

func (img Image) Empty() bool {
	return len(img.Data) == 0
}

// DecodeDataURL parses data:<mime>;base64,<payload>.
func DecodeDataURL(raw string) (Image, error) {
	raw = strings.TrimSpace(raw)
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	mime, encoding, ok := strings.Cut(header, ";")
	if !ok || !strings.EqualFold(encoding, "base64") {
		return Image{}, fmt.Errorf("%w: payload must be base64", ErrInvalidDataURL)
	}
	mime = strings.TrimSpace(mime)
	if mime == "" {
		return Image{}, fmt.Errorf("%w: missing mime type", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}
	return Image{Data: data, MIMEType: mime, FileName: DefaultFileName}, nil
}
