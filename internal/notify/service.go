package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"

	"tubewatch/internal/config"
	"tubewatch/internal/logging"
	"tubewatch/internal/services"
	"tubewatch/internal/summary"
)

// Service delivers cycle notifications.
type Service interface {
	SendResult(ctx context.Context, videoTitle string, bundle summary.Bundle) error
	SendError(ctx context.Context, videoTitle, reason string) error
	SendNoNewVideo(ctx context.Context, lastTitle string) error
}

// NewService returns an email notifier, or a no-op service when email
// delivery is disabled.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	if !cfg.Email.Enabled {
		logger.Info("email notifications disabled; using noop notifier")
		return noopService{logger: logger}
	}
	return &mailService{
		sender:    cfg.Email.Sender,
		recipient: cfg.Email.Recipient,
		password:  cfg.Email.Password,
		host:      smtpHost(cfg.Email.Sender),
		port:      cfg.Email.Port,
		timeout:   time.Duration(cfg.Email.Timeout) * time.Second,
		logger:    logger,
	}
}

type noopService struct {
	logger *slog.Logger
}

func (s noopService) skip(variant string) {
	s.logger.Debug("email delivery disabled; skipping send", logging.String("variant", variant))
}

func (s noopService) SendResult(context.Context, string, summary.Bundle) error {
	s.skip("result")
	return nil
}

func (s noopService) SendError(context.Context, string, string) error {
	s.skip("error")
	return nil
}

func (s noopService) SendNoNewVideo(context.Context, string) error {
	s.skip("no-new-video")
	return nil
}

type mailService struct {
	sender    string
	recipient string
	password  string
	host      string
	port      int
	timeout   time.Duration
	logger    *slog.Logger
}

func (s *mailService) SendResult(ctx context.Context, videoTitle string, bundle summary.Bundle) error {
	return s.send(ctx, resultMessage(videoTitle, bundle.ShortSummary, bundle.ComprehensiveSummary))
}

func (s *mailService) SendError(ctx context.Context, videoTitle, reason string) error {
	return s.send(ctx, errorMessage(videoTitle, reason))
}

func (s *mailService) SendNoNewVideo(ctx context.Context, lastTitle string) error {
	return s.send(ctx, noNewVideoMessage(lastTitle))
}

func (s *mailService) send(ctx context.Context, m message) error {
	msg := mail.NewMsg()
	if err := msg.From(s.sender); err != nil {
		return services.Wrap(services.ErrNotification, "notify", "send",
			fmt.Sprintf("invalid sender %s", s.sender), err)
	}
	if err := msg.To(s.recipient); err != nil {
		return services.Wrap(services.ErrNotification, "notify", "send",
			fmt.Sprintf("invalid recipient %s", s.recipient), err)
	}
	msg.Subject(m.subject)
	msg.SetBodyString(mail.TypeTextPlain, m.plainText())
	msg.AddAlternativeString(mail.TypeTextHTML, m.htmlBody())

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.sender),
		mail.WithPassword(s.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return services.Wrap(services.ErrNotification, "notify", "send",
			fmt.Sprintf("build smtp client for %s", s.host), err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return services.Wrap(services.ErrNotification, "notify", "send",
			classifySendError(err), err)
	}
	logging.WithContext(ctx, s.logger).Info("notification sent",
		logging.String("subject", m.subject),
		logging.String("recipient", s.recipient),
	)
	return nil
}

func classifySendError(err error) string {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		switch sendErr.Reason {
		case mail.ErrSMTPRcptTo:
			return "recipient rejected by smtp server"
		case mail.ErrConnCheck:
			return "smtp connection lost"
		}
	}
	// Auth failures surface as plain SMTP errors, not a SendError reason.
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "535") || strings.Contains(lower, "authentication") {
		return "smtp authentication failed"
	}
	return "email delivery failed"
}

// smtpHost derives the SMTP server from the sender address: mail for
// user@example.com goes through smtp.example.com.
func smtpHost(sender string) string {
	at := strings.LastIndex(sender, "@")
	if at < 0 || at == len(sender)-1 {
		return ""
	}
	return "smtp." + sender[at+1:]
}
