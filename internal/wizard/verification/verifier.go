// internal/wizard/verification/verifier.go
package verification

import (
	"context"

	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/common/validation"
	"listing-wizard/internal/submission"

	"github.com/google/uuid"
)

// Verifier sends a completed verification for review and confirms receipt
// by email and, when the mobile number is complete, by text message.
type Verifier struct {
	sink     submission.Sink
	uploader submission.Uploader
	notifier submission.Notifier
	logger   logger.Logger
}

// NewVerifier wires the collaborators; notifier may be nil.
func NewVerifier(sink submission.Sink, uploader submission.Uploader, notifier submission.Notifier, log logger.Logger) *Verifier {
	return &Verifier{
		sink:     sink,
		uploader: uploader,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"flow": FlowName}),
	}
}

func (v *Verifier) Submit(ctx context.Context, s State) error {
	id := uuid.NewString()

	payload, err := BuildPayload(ctx, s, v.uploader, id)
	if err != nil {
		return err
	}

	if err := v.sink.Send(ctx, submission.Request{
		Flow:         FlowName,
		SubmissionID: id,
		UserID:       s.Personal.UserID,
		Payload:      payload,
	}); err != nil {
		return err
	}

	v.logger.Info("verification submitted", map[string]interface{}{
		"submissionId": id,
		"propertyType": s.PropertyType.PropertyType,
		"photos":       len(payload.Property.Photos),
	})

	if v.notifier == nil {
		return nil
	}
	if err := v.notifier.Notify(ctx, submission.Notification{
		Flow:         FlowName,
		SubmissionID: id,
		Email:        s.Personal.Email,
		Phone:        smsNumber(s.Personal.MobileNumber),
		Data: map[string]interface{}{
			"name":         s.Personal.LegalFullName,
			"propertyName": s.Basics.PropertyName,
		},
	}); err != nil {
		v.logger.Warn("verification confirmation not sent", map[string]interface{}{
			"submissionId": id,
			"error":        err,
		})
	}
	return nil
}

// smsNumber returns the E.164 form of a complete mobile number, or "".
func smsNumber(formatted string) string {
	if !validation.HasPhoneDigits(formatted) {
		return ""
	}
	return "+" + validation.PhoneDigits(formatted)
}
