// internal/common/metrics/metrics.go
package metrics

import (
	"context"

	"listing-wizard/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardNavigation = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_navigation_total",
			Help: "Total number of screen transitions per flow",
		},
		[]string{"flow", "direction"},
	)

	WizardDraftOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_draft_operations_total",
			Help: "Total number of draft slot operations per flow",
		},
		[]string{"flow", "operation"},
	)

	WizardSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Total number of submission attempts per flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	WizardSubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wizard_submission_duration_seconds",
			Help: "Duration of submission attempts in seconds",
		},
		[]string{"flow", "outcome"},
	)

	WizardAttachmentsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_attachments_rejected_total",
			Help: "Total number of files refused by an attachment policy",
		},
		[]string{"flow", "field"},
	)

	WizardSessionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wizard_sessions_active",
			Help: "Number of open wizard sessions per flow",
		},
		[]string{"flow"},
	)
)

// Recorder feeds session events into the Prometheus collectors above.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (Recorder) Record(_ context.Context, e models.WizardEvent) {
	switch e.Type {
	case models.EventAdvanced:
		WizardNavigation.WithLabelValues(e.Flow, "next").Inc()
	case models.EventRetreated:
		WizardNavigation.WithLabelValues(e.Flow, "back").Inc()
	case models.EventDraftLoaded:
		WizardDraftOperations.WithLabelValues(e.Flow, "load").Inc()
	case models.EventDraftSaved:
		WizardDraftOperations.WithLabelValues(e.Flow, "save").Inc()
	case models.EventDraftSaveFailed:
		WizardDraftOperations.WithLabelValues(e.Flow, "save_failed").Inc()
	case models.EventDraftCleared:
		WizardDraftOperations.WithLabelValues(e.Flow, "clear").Inc()
	case models.EventSubmitted:
		WizardSubmissions.WithLabelValues(e.Flow, "success").Inc()
		WizardSubmissionDuration.WithLabelValues(e.Flow, "success").Observe(e.Duration.Seconds())
	case models.EventSubmissionFailed:
		WizardSubmissions.WithLabelValues(e.Flow, "failure").Inc()
		WizardSubmissionDuration.WithLabelValues(e.Flow, "failure").Observe(e.Duration.Seconds())
	case models.EventAttachmentRejected:
		WizardAttachmentsRejected.WithLabelValues(e.Flow, e.Detail).Inc()
	}
}
