// internal/wizard/listing/publisher.go
package listing

import (
	"context"

	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/submission"

	"github.com/google/uuid"
)

// Publisher submits a completed listing: upload attachments, deliver the
// payload, then confirm to the owner. It never modifies the state it is
// given.
type Publisher struct {
	sink     submission.Sink
	uploader submission.Uploader
	notifier submission.Notifier
	logger   logger.Logger
}

// NewPublisher wires the collaborators; notifier may be nil.
func NewPublisher(sink submission.Sink, uploader submission.Uploader, notifier submission.Notifier, log logger.Logger) *Publisher {
	return &Publisher{
		sink:     sink,
		uploader: uploader,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"flow": FlowName}),
	}
}

func (p *Publisher) Submit(ctx context.Context, s State) error {
	id := uuid.NewString()

	payload, err := BuildPayload(ctx, s, p.uploader, id)
	if err != nil {
		return err
	}

	if err := p.sink.Send(ctx, submission.Request{
		Flow:         FlowName,
		SubmissionID: id,
		UserID:       s.Owner.UserID,
		Payload:      payload,
	}); err != nil {
		return err
	}

	p.logger.Info("listing published", map[string]interface{}{
		"submissionId": id,
		"rooms":        len(payload.Rooms),
		"photos":       len(payload.Property.Photos),
	})

	if p.notifier == nil {
		return nil
	}
	if err := p.notifier.Notify(ctx, submission.Notification{
		Flow:         FlowName,
		SubmissionID: id,
		Email:        s.Owner.Email,
		Data: map[string]interface{}{
			"name":         s.Owner.FullName(),
			"propertyName": s.Basics.PropertyName,
		},
	}); err != nil {
		p.logger.Warn("listing confirmation not sent", map[string]interface{}{
			"submissionId": id,
			"error":        err,
		})
	}
	return nil
}
