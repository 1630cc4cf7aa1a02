// internal/submission/zeebe_sink.go
package submission

import (
	"context"

	"listing-wizard/internal/common/logger"
)

// ProcessStarter is the part of the Camunda client the sink needs.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

// ZeebeSink starts a review process instance per submission. The whole
// request becomes the process variables.
type ZeebeSink struct {
	starter   ProcessStarter
	processID string
	logger    logger.Logger
}

func NewZeebeSink(starter ProcessStarter, processID string, log logger.Logger) *ZeebeSink {
	return &ZeebeSink{
		starter:   starter,
		processID: processID,
		logger:    log.WithFields(map[string]interface{}{"sink": "zeebe", "processId": processID}),
	}
}

func (s *ZeebeSink) Send(ctx context.Context, req Request) error {
	key, err := s.starter.StartProcess(ctx, s.processID, req)
	if err != nil {
		return err
	}
	s.logger.Info("review process started", map[string]interface{}{
		"flow":               req.Flow,
		"submissionId":       req.SubmissionID,
		"processInstanceKey": key,
	})
	return nil
}
