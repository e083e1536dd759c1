package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	mail "github.com/wneessen/go-mail"

	"tubewatch/internal/summary"
	"tubewatch/internal/testsupport"
)

func TestSmtpHost(t *testing.T) {
	cases := map[string]string{
		"bot@example.com":      "smtp.example.com",
		"a@b.co":               "smtp.b.co",
		"first@last@host.com":  "smtp.host.com",
		"no-at-sign":           "",
		"trailing@":            "",
	}
	for sender, want := range cases {
		if got := smtpHost(sender); got != want {
			t.Errorf("smtpHost(%q) = %q, want %q", sender, got, want)
		}
	}
}

func TestNewServiceReturnsNoopWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	svc := NewService(cfg, nil)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.SendResult(context.Background(), "t", summary.Bundle{}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
	if err := svc.SendError(context.Background(), "t", "reason"); err != nil {
		t.Fatalf("noop send error: %v", err)
	}
	if err := svc.SendNoNewVideo(context.Background(), "t"); err != nil {
		t.Fatalf("noop send no-new: %v", err)
	}
}

func TestClassifySendError(t *testing.T) {
	rcptErr := &mail.SendError{Reason: mail.ErrSMTPRcptTo}
	if got := classifySendError(rcptErr); got != "recipient rejected by smtp server" {
		t.Fatalf("rcpt: got %q", got)
	}
	connErr := &mail.SendError{Reason: mail.ErrConnCheck}
	if got := classifySendError(connErr); got != "smtp connection lost" {
		t.Fatalf("conn: got %q", got)
	}
	authErr := errors.New("535 5.7.8 username and password not accepted")
	if got := classifySendError(authErr); got != "smtp authentication failed" {
		t.Fatalf("auth: got %q", got)
	}
	if got := classifySendError(errors.New("dial tcp: i/o timeout")); got != "email delivery failed" {
		t.Fatalf("generic: got %q", got)
	}
}

func TestNewServiceDerivesSMTPHost(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEmail())

	svc := NewService(cfg, nil)
	mailSvc, ok := svc.(*mailService)
	if !ok {
		t.Fatalf("expected mail service, got %T", svc)
	}
	if mailSvc.host != "smtp.example.com" {
		t.Fatalf("host = %q", mailSvc.host)
	}
	if mailSvc.port != cfg.Email.Port {
		t.Fatalf("port = %d", mailSvc.port)
	}
}

func TestResultMessageRendering(t *testing.T) {
	m := resultMessage("Weekly <Update>", "short text", "long\ntext")

	if m.subject != "Video summary: Weekly <Update>" {
		t.Fatalf("subject = %q", m.subject)
	}

	plain := m.plainText()
	for _, want := range []string{"Short summary", "short text", "Comprehensive summary", "long\ntext"} {
		if !strings.Contains(plain, want) {
			t.Errorf("plain text missing %q:\n%s", want, plain)
		}
	}

	html := m.htmlBody()
	if !strings.Contains(html, "Weekly &lt;Update&gt;") {
		t.Errorf("html should escape the title:\n%s", html)
	}
	if !strings.Contains(html, "long<br/>text") {
		t.Errorf("html should convert newlines:\n%s", html)
	}
}

func TestErrorMessageRendering(t *testing.T) {
	m := errorMessage("Some Video", "summarizer quota exhausted")
	if m.subject != "Error generating video summary: Some Video" {
		t.Fatalf("subject = %q", m.subject)
	}
	if !strings.Contains(m.plainText(), "summarizer quota exhausted") {
		t.Fatalf("plain text missing reason:\n%s", m.plainText())
	}
}

func TestNoNewVideoMessage(t *testing.T) {
	withTitle := noNewVideoMessage("Last Video")
	if !strings.Contains(withTitle.plainText(), `No new videos since "Last Video"`) {
		t.Fatalf("plain = %q", withTitle.plainText())
	}
	empty := noNewVideoMessage("")
	if !strings.Contains(empty.plainText(), "No new videos were found") {
		t.Fatalf("plain = %q", empty.plainText())
	}
}
