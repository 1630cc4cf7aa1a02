// Package submission holds the collaborators a wizard talks to when the user
// submits: the endpoint that receives the payload, the attachment uploader
// and the confirmation notifier.
package submission

import (
	"context"

	"listing-wizard/internal/models"
)

// Request is one assembled submission.
type Request struct {
	Flow         string      `json:"flow"`
	SubmissionID string      `json:"submissionId"`
	UserID       string      `json:"userId"`
	Payload      interface{} `json:"payload"`
}

// Sink delivers a submission. Errors are *errors.StandardError with
// SUBMISSION_FAILED, SUBMISSION_REJECTED or TIMEOUT_ERROR codes.
type Sink interface {
	Send(ctx context.Context, req Request) error
}

// Uploader stores an attachment and returns a durable reference to it.
type Uploader interface {
	Upload(ctx context.Context, ref ObjectRef, a *models.Attachment) (string, error)
}

// ObjectRef identifies where an attachment belongs.
type ObjectRef struct {
	Flow         string
	SubmissionID string
	Field        string
}

// Notifier confirms a successful submission to the user. Failures are
// reported but must not fail the submission.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Notification is a confirmation for one submission. Data fills the flow's
// message template.
type Notification struct {
	Flow         string
	SubmissionID string
	Email        string
	Phone        string
	Data         map[string]interface{}
}

// AttachmentRef is how an uploaded file appears in a payload.
type AttachmentRef struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// UploadAttachment uploads a, if attached, and returns its payload reference.
// A nil or released attachment yields nil.
func UploadAttachment(ctx context.Context, u Uploader, ref ObjectRef, a *models.Attachment) (*AttachmentRef, error) {
	if !a.Attached() {
		return nil, nil
	}
	url, err := u.Upload(ctx, ref, a)
	if err != nil {
		return nil, err
	}
	return &AttachmentRef{
		URL:         url,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
	}, nil
}
