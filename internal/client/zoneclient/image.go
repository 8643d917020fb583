package zoneclient

import (
	"bytes"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// Image is a photo attached to a zone or used as a profile image.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OpenImage reads the file at path. The content type is derived from the
// extension, or sniffed when the extension is unknown.
func OpenImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &Image{
		Filename:    filepath.Base(path),
		ContentType: ct,
		Data:        data,
	}, nil
}

// multipartBody encodes an optional JSON "request" part and an optional "image" file part.
func multipartBody(requestPart any, img *Image) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if requestPart != nil {
		b, err := json.Marshal(requestPart)
		if err != nil {
			return nil, "", err
		}
		if err := w.WriteField("request", string(b)); err != nil {
			return nil, "", err
		}
	}

	if img != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
			"name":     "image",
			"filename": img.Filename,
		}))
		h.Set("Content-Type", img.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
