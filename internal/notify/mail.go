// Package notify delivers best-effort publication events by mail. Delivery is
// fire-and-forget: the caller never waits on the SMTP hop and a lost mail is
// only ever a log line.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"go-blog-app/internal/config"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/service"
)

const postPublishedSubject = "New post published: %s"

// Kept inline: the notification body is the only mail this application sends.
const postPublishedBody = `<p><strong>{{.Title}}</strong> by {{.Author}}{{if .Category}} in {{.Category}}{{end}} was just published.</p>`

// MailNotifier implements service.Notifier over plain SMTP. When the SMTP
// configuration is incomplete the notifier runs disabled and every event is a
// no-op, which keeps local development working without a mail server.
type MailNotifier struct {
	cfg      config.SMTPConfig
	tmpl     *template.Template
	log      logger.Logger
	enabled  bool
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ service.Notifier = (*MailNotifier)(nil)

// NewMailNotifier creates a MailNotifier from the SMTP configuration.
func NewMailNotifier(cfg config.SMTPConfig, log logger.Logger) *MailNotifier {
	enabled := cfg.Host != "" && cfg.Port != "" && cfg.From != "" && len(cfg.Recipients) > 0
	if !enabled {
		log.Warn("mail notifier disabled: incomplete SMTP configuration")
	}
	return &MailNotifier{
		cfg:      cfg,
		tmpl:     template.Must(template.New("post_published").Parse(postPublishedBody)),
		log:      log,
		enabled:  enabled,
		sendMail: smtp.SendMail,
	}
}

// PostPublished sends the publication mail on a separate goroutine and
// returns immediately. SMTP failures are logged inside the goroutine; the
// returned error only covers problems rendering the message itself.
func (n *MailNotifier) PostPublished(ctx context.Context, event service.PostPublishedEvent) error {
	if !n.enabled {
		return nil
	}

	var body bytes.Buffer
	if err := n.tmpl.Execute(&body, event); err != nil {
		return fmt.Errorf("failed to render notification body: %w", err)
	}

	recipients := event.Recipients
	if len(recipients) == 0 {
		recipients = n.cfg.Recipients
	}
	subject := fmt.Sprintf(postPublishedSubject, event.Title)
	msg := []byte("To: " + strings.Join(recipients, ",") + "\r\n" +
		"From: " + n.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body.String())

	addr := n.cfg.Host + ":" + n.cfg.Port
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	go func() {
		if err := n.sendMail(addr, auth, n.cfg.From, recipients, msg); err != nil {
			n.log.Error(err, "failed to send post published mail")
		}
	}()
	return nil
}

// NopNotifier discards every event. Used when notifications are switched off
// and in tests.
type NopNotifier struct{}

var _ service.Notifier = (*NopNotifier)(nil)

// PostPublished does nothing.
func (NopNotifier) PostPublished(ctx context.Context, event service.PostPublishedEvent) error {
	return nil
}
