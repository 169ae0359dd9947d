package models

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const DefaultContentType = "image/png"

// Image is an opaque binary payload with its MIME type. It is the unit
// stored in the blob store.
type Image struct {
	ContentType string
	Data        []byte
}

// NewImage sniffs the content type from data when contentType is empty.
func NewImage(data []byte, contentType string) Image {
	if contentType == "" {
		contentType = SniffContentType(data)
	}
	return Image{ContentType: contentType, Data: data}
}

// SniffContentType detects image MIME types, falling back to image/png for
// anything http.DetectContentType does not recognise as an image.
func SniffContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return DefaultContentType
}

// DataURL renders the image as a base64 data URL suitable for display.
func (i Image) DataURL() string {
	ct := i.ContentType
	if ct == "" {
		ct = DefaultContentType
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Extension is the file extension for the image's content type.
func (i Image) Extension() string {
	switch i.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
