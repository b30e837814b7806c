package mail

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/config"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/metrics"
)

// addressShape is a deliberate shape check (local@domain.tld), not full
// address-grammar validation.
var addressShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SendRequest is a single outbound relay request.
type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	ReplyTo string `json:"replyTo,omitempty"`
}

// SendResult reports the outcome of one send attempt.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
}

// Gateway validates send requests, ensures a live transport exists and
// performs exactly one transmission attempt per request.
type Gateway struct {
	manager *Manager
	cfg     config.Mail
	log     *zap.SugaredLogger
}

// NewGateway creates a send gateway on top of the connection manager.
func NewGateway(manager *Manager, cfg config.Mail, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		manager: manager,
		cfg:     cfg,
		log:     log.Named("mail-gateway"),
	}
}

// Validate checks the request before any transport interaction.
func (g *Gateway) Validate(req SendRequest) error {
	if strings.TrimSpace(req.To) == "" ||
		strings.TrimSpace(req.Subject) == "" ||
		strings.TrimSpace(req.Body) == "" {
		return ErrMissingFields
	}
	if !addressShape.MatchString(req.To) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, req.To)
	}
	return nil
}

// Send relays one message. Validation failures and transport absence are
// reported before the library is ever invoked; a library failure is
// surfaced once, with no request-level retry.
func (g *Gateway) Send(req SendRequest) (SendResult, error) {
	if err := g.Validate(req); err != nil {
		metrics.ValidationRejected.WithLabelValues(rejectReason(err)).Inc()
		return SendResult{}, err
	}

	transport, err := g.manager.Ensure()
	if err != nil {
		g.log.Warnw("No mail transport available for send", "error", err)
		return SendResult{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	msg, id := g.compose(req)
	if err := transport.Send(msg); err != nil {
		metrics.SendFailure.WithLabelValues(transport.Host()).Inc()
		g.log.Errorw("Mail relay rejected message",
			"to", req.To,
			"subject", req.Subject,
			"error", err)
		return SendResult{}, err
	}

	metrics.SendSuccess.WithLabelValues(transport.Host()).Inc()
	g.log.Infow("Mail relayed",
		"to", req.To,
		"subject", req.Subject,
		"messageId", id)
	return SendResult{Success: true, MessageID: id}, nil
}

// SendTest pushes a fixed self-addressed diagnostic message through the
// same pipeline, for health verification.
func (g *Gateway) SendTest() (SendResult, error) {
	return g.Send(SendRequest{
		To:      g.cfg.SenderAddress,
		Subject: "Mail service diagnostic",
		Body: fmt.Sprintf("Diagnostic message sent at %s.\n\nIf you received this, the relay pipeline is working.",
			time.Now().Format(time.RFC3339)),
	})
}

// compose builds the outbound envelope: fixed sender identity, caller
// content, reply-to override or default, bounce return path and the
// anti-abuse headers, plus a generated Message-ID that is returned to the
// caller as the message identifier.
func (g *Gateway) compose(req SendRequest) (*gomail.Message, string) {
	replyTo := req.ReplyTo
	if replyTo == "" {
		replyTo = g.cfg.ReplyTo
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(g.cfg.SenderAddress))

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", g.cfg.SenderAddress, g.cfg.SenderName)
	msg.SetHeader("To", req.To)
	msg.SetHeader("Subject", req.Subject)
	msg.SetHeader("Reply-To", replyTo)
	msg.SetHeader("Return-Path", g.cfg.BounceAddress)
	msg.SetHeader("Message-ID", id)
	msg.SetHeader("List-Unsubscribe", "<mailto:"+g.cfg.ListUnsubscribe+">")
	msg.SetHeader("X-Mailer", "pension-pilot-mail-service")
	msg.SetHeader("Precedence", "bulk")
	msg.SetBody("text/plain", req.Body)

	return msg, id
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}

func rejectReason(err error) string {
	if errors.Is(err, ErrMissingFields) {
		return "missing_fields"
	}
	return "invalid_address"
}
