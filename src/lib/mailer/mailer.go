// Package mailer delivers order and refund notifications.
package mailer

import (
	"context"
	"fmt"
	"livevibe/src/config"
	"livevibe/src/lib"
	awslib "livevibe/src/lib/aws"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/wneessen/go-mail"
)

type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type SMTPNotifier struct {
	client     smtpSender
	from       string
	senderName string
	replyTo    string
}

func NewSMTPNotifier(cfg config.SMTPConfig) (*SMTPNotifier, error) {
	c, err := lib.GetSMTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &SMTPNotifier{client: c, from: cfg.Sender, senderName: cfg.SenderName, replyTo: cfg.ReplyTo}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := lib.NewMessage(&lib.SendMailInput{
		From:     n.from,
		FromName: n.senderName,
		To:       []string{to},
		ReplyTo:  n.replyTo,
		Subject:  subject,
		Body:     htmlBody,
		Html:     true,
	})
	if err != nil {
		return err
	}
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: sending to %s: %w", to, err)
	}
	return nil
}

type sesSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESNotifier struct {
	client sesSender
	from   string
}

func NewSESNotifier(ctx context.Context, from string) (*SESNotifier, error) {
	c, err := awslib.GetSESClient(ctx)
	if err != nil {
		return nil, err
	}
	return &SESNotifier{client: c, from: from}, nil
}

func (n *SESNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	out, err := n.client.SendEmail(ctx, awslib.NewHTMLEmailInput(n.from, []string{to}, subject, htmlBody))
	if err != nil {
		return fmt.Errorf("ses: sending to %s: %w", to, err)
	}
	if out != nil && out.MessageId != nil {
		log.Printf("Sent email with id: %s\n", *out.MessageId)
	}
	return nil
}

// LogNotifier only writes the subject line to the log. Used for local runs.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	log.Printf("[mailer] to=%s subject=%q bytes=%d\n", to, subject, len(htmlBody))
	return nil
}

// NewFromEnv picks the transport named by MAIL_DRIVER (smtp, ses or log).
func NewFromEnv(ctx context.Context) (Notifier, error) {
	smtpCfg := config.GetSMTPConfig()
	switch driver := strings.ToLower(config.GetEnv("MAIL_DRIVER", "log")); driver {
	case "smtp":
		return NewSMTPNotifier(smtpCfg)
	case "ses":
		return NewSESNotifier(ctx, smtpCfg.Sender)
	case "log":
		return LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("mailer: unknown MAIL_DRIVER %q", driver)
	}
}
