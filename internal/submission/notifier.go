// internal/submission/notifier.go
package submission

import (
	"context"
	"fmt"
	"strings"

	"listing-wizard/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type template struct {
	subject string
	body    string
	sms     string
}

var templates = map[string]template{
	"listing": {
		subject: "Your property {{propertyName}} has been submitted",
		body:    "Hello {{name}}, thank you for listing {{propertyName}}. Reference: {{submissionId}}. We will let you know once it is live.",
		sms:     "Your listing {{propertyName}} was received. Ref {{submissionId}}",
	},
	"verification": {
		subject: "We received your owner verification",
		body:    "Hello {{name}}, your verification request for {{propertyName}} is under review. Reference: {{submissionId}}.",
		sms:     "Your owner verification for {{propertyName}} is under review. Ref {{submissionId}}",
	},
}

// AWSNotifier sends an email through SES and, when a phone number is known,
// a text message through SNS. Either channel can be disabled.
type AWSNotifier struct {
	ses          SESService
	sns          SNSService
	fromEmail    string
	emailEnabled bool
	smsEnabled   bool
	logger       logger.Logger
}

type NotifierConfig struct {
	FromEmail    string
	EmailEnabled bool
	SMSEnabled   bool
}

func NewAWSNotifier(sesClient SESService, snsClient SNSService, cfg NotifierConfig, log logger.Logger) *AWSNotifier {
	return &AWSNotifier{
		ses:          sesClient,
		sns:          snsClient,
		fromEmail:    cfg.FromEmail,
		emailEnabled: cfg.EmailEnabled && sesClient != nil,
		smsEnabled:   cfg.SMSEnabled && snsClient != nil,
		logger:       log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// Notify tries every enabled channel and returns the first failure.
func (n *AWSNotifier) Notify(ctx context.Context, note Notification) error {
	tmpl, ok := templates[note.Flow]
	if !ok {
		return fmt.Errorf("no notification template for flow %s", note.Flow)
	}
	data := map[string]interface{}{"submissionId": note.SubmissionID}
	for k, v := range note.Data {
		data[k] = v
	}

	var firstErr error
	if n.emailEnabled && note.Email != "" {
		if err := n.sendEmail(ctx, note.Email, renderTemplate(tmpl.subject, data), renderTemplate(tmpl.body, data)); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error":        err,
				"submissionId": note.SubmissionID,
			})
			firstErr = fmt.Errorf("send email: %w", err)
		}
	}
	if n.smsEnabled && note.Phone != "" {
		if err := n.sendSMS(ctx, note.Phone, renderTemplate(tmpl.sms, data)); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"error":        err,
				"submissionId": note.SubmissionID,
			})
			if firstErr == nil {
				firstErr = fmt.Errorf("send sms: %w", err)
			}
		}
	}
	return firstErr
}

func (n *AWSNotifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	return err
}

func (n *AWSNotifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

// renderTemplate substitutes {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}
