package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/qixeo/qixeo-web/pkg/mailer/templates"
)

// ErrNoTransport is returned when sending is enabled but neither Mailgun nor
// RabbitMQ is configured.
var ErrNoTransport = errors.New("no email transport configured")

// Sender delivers one email job.
type Sender interface {
	Deliver(ctx context.Context, job EmailJob) error
}

// Prepare fills recipient defaults and renders Template into Subject/Text/HTML.
// Jobs without a template are left untouched.
func Prepare(ctx context.Context, job *EmailJob, resolver mailtpl.GeoResolver) error {
	if job.Template == "" {
		return nil
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
	if resolver != nil {
		mailtpl.LocalizeTimes(ctx, resolver, job.Data)
	}
	subject, text, html, err := mailtpl.Render(strings.ToLower(job.Template), job.Data)
	if err != nil {
		return err
	}
	job.Subject, job.Text, job.HTML = strings.TrimSpace(subject), text, html
	return nil
}

// DirectSender renders and sends inline through Mailgun.
type DirectSender struct {
	Mailgun  *Mailgun
	Resolver mailtpl.GeoResolver
}

func (s *DirectSender) Deliver(ctx context.Context, job EmailJob) error {
	if err := Prepare(ctx, &job, s.Resolver); err != nil {
		return fmt.Errorf("render %s: %w", job.Template, err)
	}
	return s.Mailgun.Send(ctx, job.From, job.To, job.Subject, job.Text, job.HTML)
}

// Publisher is satisfied by helpers.RabbitQueue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands jobs to cmd/email_worker through RabbitMQ; rendering happens there.
type QueueSender struct {
	Pub Publisher
}

func (s *QueueSender) Deliver(ctx context.Context, job EmailJob) error {
	return s.Pub.PublishJSON(ctx, job)
}

// LogSender drops jobs after logging them; used when MAIL_SEND_ENABLED=false.
type LogSender struct {
	Logger *logrus.Logger
}

func (s *LogSender) Deliver(ctx context.Context, job EmailJob) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).
			Info("email sending disabled; job dropped")
	}
	return nil
}

// UnavailableSender fails every job with ErrNoTransport.
type UnavailableSender struct{}

func (UnavailableSender) Deliver(ctx context.Context, job EmailJob) error {
	return ErrNoTransport
}
