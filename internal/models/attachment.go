// internal/models/attachment.go
package models

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// FileKind is the declared type of an attachment.
type FileKind string

const (
	KindImage FileKind = "image"
	KindPDF   FileKind = "pdf"
)

const megabyte = 1 << 20

// File is a raw user-selected file as received from the presentation layer.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Attachment is a user-selected file plus its preview. Handle is never
// serialized; PreviewURL reaches the view only, drafts strip attachments
// whole. Release drops both.
type Attachment struct {
	Handle       *File    `json:"-"`
	PreviewURL   string   `json:"previewUrl,omitempty"`
	DeclaredType FileKind `json:"declaredType"`
	FileName     string   `json:"fileName"`
	ContentType  string   `json:"contentType"`
	Size         int64    `json:"size"`
}

// Attached reports whether the attachment still holds its file.
func (a *Attachment) Attached() bool {
	return a != nil && a.Handle != nil
}

// Release drops the file handle and preview. Safe on nil.
func (a *Attachment) Release() {
	if a == nil {
		return
	}
	a.Handle = nil
	a.PreviewURL = ""
}

// Policy is the intake rule for one attachment field.
type Policy struct {
	Kind     FileKind
	MaxBytes int64
}

var (
	OwnershipDocumentPolicy = Policy{Kind: KindPDF, MaxBytes: 5 * megabyte}
	PropertyPhotoPolicy     = Policy{Kind: KindImage, MaxBytes: 10 * megabyte}
	RoomPhotoPolicy         = Policy{Kind: KindImage, MaxBytes: 2 * megabyte}
	GovernmentIDPolicy      = Policy{Kind: KindImage, MaxBytes: 1 * megabyte}
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Accept checks the file against the policy. On rejection it returns nil and
// the message to show next to the field.
func (p Policy) Accept(f File) (*Attachment, string) {
	if len(f.Data) == 0 {
		return nil, "Please choose a file"
	}

	sniffed := http.DetectContentType(f.Data)
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = sniffed[:i]
	}

	switch p.Kind {
	case KindPDF:
		if sniffed != "application/pdf" {
			return nil, "Please upload a PDF file"
		}
	case KindImage:
		if !imageTypes[sniffed] {
			return nil, "Please upload an image file (JPEG, PNG, GIF or WebP)"
		}
	}

	if int64(len(f.Data)) > p.MaxBytes {
		return nil, fmt.Sprintf("File size must be less than %dMB", p.MaxBytes/megabyte)
	}

	handle := f
	a := &Attachment{
		Handle:       &handle,
		DeclaredType: p.Kind,
		FileName:     f.Name,
		ContentType:  sniffed,
		Size:         int64(len(f.Data)),
	}
	if p.Kind == KindImage {
		a.PreviewURL = "data:" + sniffed + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
	}
	return a, ""
}
