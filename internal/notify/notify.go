// Package notify sends rendered remitos to clients.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/MrJamesThe3rd/remito/internal/money"
	"github.com/MrJamesThe3rd/remito/internal/order"
)

var ErrNoRecipient = errors.New("message has no recipient")

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// OrderMessage builds the mail that carries an order's remito.
func OrderMessage(o *order.Order, company, documentName string, pdf []byte) Message {
	f := money.DefaultFormatter()

	var sb strings.Builder

	fmt.Fprintf(&sb, "Hola %s,\n\nAdjuntamos el remito %s.\n\n", o.ClientName, o.ID)

	for _, it := range o.Items {
		fmt.Fprintf(&sb, "* %d x %s | %s\n", it.Quantity, it.Name, f.Format(it.UnitPrice))
	}

	fmt.Fprintf(&sb, "\nTotal: %s\n", f.Format(o.Total))

	if company != "" {
		fmt.Fprintf(&sb, "\n%s\n", company)
	}

	return Message{
		To:      o.ClientEmail,
		Subject: "Remito " + o.ID,
		Body:    sb.String(),
		Attachments: []Attachment{
			{Name: documentName, ContentType: "application/pdf", Data: pdf},
		},
	}
}

// Log only records that a message would have been sent. It is used when no
// mail server is configured.
type Log struct{}

func (Log) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	slog.Info("notification not sent, no mail server configured",
		"to", msg.To, "subject", msg.Subject, "attachments", len(msg.Attachments))

	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m, err := s.compose(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}

	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Password),
		)
	}

	c, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}

	return nil
}

func (s *SMTP) compose(msg Message) (*mail.Msg, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}

	m := mail.NewMsg()

	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}

	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("setting recipient: %w", err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, a := range msg.Attachments {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}

		if err := m.AttachReader(a.Name, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("attaching %s: %w", a.Name, err)
		}
	}

	return m, nil
}
