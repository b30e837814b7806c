package mail

import (
	"crypto/tls"

	"gopkg.in/gomail.v2"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/config"
)

// Transport is an authenticated channel capable of submitting messages to
// the upstream relay. At most one live transport exists at a time; the
// Manager replaces it wholesale on reinitialization.
type Transport interface {
	Send(msg *gomail.Message) error
	Host() string
}

// DialFunc verifies connectivity against the relay and returns a live
// transport. The Manager's default performs a real SMTP dial; tests inject
// their own.
type DialFunc func(cfg config.Mail) (Transport, error)

type dialerTransport struct {
	dialer *gomail.Dialer
}

func (t *dialerTransport) Send(msg *gomail.Message) error {
	return t.dialer.DialAndSend(msg)
}

func (t *dialerTransport) Host() string {
	return t.dialer.Host
}

// dialAndVerify constructs the gomail dialer from the fixed relay
// parameters and performs the verification handshake: dial, authenticate,
// close. Only a successful round-trip yields a transport.
func dialAndVerify(cfg config.Mail) (Transport, error) {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	sc, err := d.Dial()
	if err != nil {
		return nil, err
	}
	if err := sc.Close(); err != nil {
		return nil, err
	}
	return &dialerTransport{dialer: d}, nil
}
