package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSMTP struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSMTP) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSMTPNotifierSend(t *testing.T) {
	client := &fakeSMTP{}
	n := &SMTPNotifier{client: client, from: "no-reply@livevibe.local", senderName: "LiveVibe"}

	err := n.Send(context.Background(), "buyer@example.com", "Order Confirmation: Order #1", "<p>hi</p>")
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	recipients, err := client.sent[0].GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"buyer@example.com"}, recipients)
	assert.Equal(t, []string{"Order Confirmation: Order #1"}, client.sent[0].GetGenHeader(mail.HeaderSubject))
}

func TestSMTPNotifierSetsReplyTo(t *testing.T) {
	client := &fakeSMTP{}
	n := &SMTPNotifier{client: client, from: "no-reply@livevibe.local", senderName: "LiveVibe", replyTo: "support@livevibe.local"}

	require.NoError(t, n.Send(context.Background(), "buyer@example.com", "subject", "<p>hi</p>"))
	require.Len(t, client.sent, 1)
	replyTo := client.sent[0].GetAddrHeader(mail.HeaderReplyTo)
	require.Len(t, replyTo, 1)
	assert.Equal(t, "support@livevibe.local", replyTo[0].Address)

	client = &fakeSMTP{}
	n = &SMTPNotifier{client: client, from: "no-reply@livevibe.local"}
	require.NoError(t, n.Send(context.Background(), "buyer@example.com", "subject", "<p>hi</p>"))
	assert.Empty(t, client.sent[0].GetAddrHeader(mail.HeaderReplyTo))
}

func TestSMTPNotifierErrors(t *testing.T) {
	n := &SMTPNotifier{client: &fakeSMTP{}, from: "no-reply@livevibe.local"}
	assert.Error(t, n.Send(context.Background(), "not an address", "subject", "body"))

	n = &SMTPNotifier{client: &fakeSMTP{err: errors.New("dial tcp: connection refused")}, from: "no-reply@livevibe.local"}
	assert.ErrorContains(t, n.Send(context.Background(), "buyer@example.com", "subject", "body"), "connection refused")
}

func TestSESNotifierSend(t *testing.T) {
	client := &fakeSES{}
	n := &SESNotifier{client: client, from: "no-reply@livevibe.local"}

	require.NoError(t, n.Send(context.Background(), "buyer@example.com", "Ticket Refund Confirmation: Order #2", "<p>refund</p>"))
	require.NotNil(t, client.input)
	assert.Equal(t, "no-reply@livevibe.local", *client.input.Source)
	assert.Equal(t, []string{"buyer@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Ticket Refund Confirmation: Order #2", *client.input.Message.Subject.Data)
	assert.Equal(t, "<p>refund</p>", *client.input.Message.Body.Html.Data)

	n = &SESNotifier{client: &fakeSES{err: errors.New("throttled")}, from: "no-reply@livevibe.local"}
	assert.Error(t, n.Send(context.Background(), "buyer@example.com", "s", "b"))
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("MAIL_DRIVER", "log")
	n, err := NewFromEnv(context.Background())
	require.NoError(t, err)
	assert.IsType(t, LogNotifier{}, n)
	assert.NoError(t, n.Send(context.Background(), "buyer@example.com", "s", "b"))

	t.Setenv("MAIL_DRIVER", "pigeon")
	_, err = NewFromEnv(context.Background())
	assert.Error(t, err)
}
