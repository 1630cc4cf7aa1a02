// internal/submission/http_sink.go
package submission

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "listing-wizard/internal/common/errors"
	commonhttp "listing-wizard/internal/common/http"
	"listing-wizard/internal/common/logger"
)

// HTTPSink posts the payload to the remote listing API.
type HTTPSink struct {
	client *commonhttp.Client
	url    string
	token  string
	logger logger.Logger
}

func NewHTTPSink(client *commonhttp.Client, baseURL, path, token string, log logger.Logger) *HTTPSink {
	return &HTTPSink{
		client: client,
		url:    strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/"),
		token:  token,
		logger: log.WithFields(map[string]interface{}{"sink": "http"}),
	}
}

func (s *HTTPSink) Send(ctx context.Context, req Request) error {
	headers := map[string]string{
		"Idempotency-Key": req.SubmissionID,
	}
	if s.token != "" {
		headers["Authorization"] = "Bearer " + s.token
	}

	resp, err := s.client.SendJSON(ctx, http.MethodPost, s.url, headers, req.Payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.NewTimeoutError("submission", err)
		}
		return apperrors.NewSubmissionFailedError(req.Flow, err)
	}

	switch {
	case resp.OK():
		s.logger.Info("submission delivered", map[string]interface{}{
			"flow":         req.Flow,
			"submissionId": req.SubmissionID,
			"status":       resp.StatusCode,
		})
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return apperrors.NewSubmissionRejectedError(req.Flow, resp.StatusCode, string(resp.Body))
	default:
		return apperrors.NewSubmissionFailedError(req.Flow, fmt.Errorf("status %d: %s", resp.StatusCode, resp.Body))
	}
}
