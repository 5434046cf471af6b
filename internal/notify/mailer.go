package notify

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/Sidddev15/geo-alert/internal/event"
)

// SMTPConfig holds the mail transport settings. Pass comes in explicitly
// (sourced from the environment by the config layer).
type SMTPConfig struct {
	Host string
	Port int
	SSL  bool
	User string
	Pass string
	From string
}

// Recipients routes alerts. Emergency pings go to EmergencyTo when set,
// otherwise to PrimaryTo plus ExtraTo; CC/BCC apply to normal mail only.
type Recipients struct {
	PrimaryTo   string
	ExtraTo     []string
	CC          []string
	BCC         []string
	EmergencyTo []string
}

// Mailer sends alert emails over SMTP. Recipients are swappable at
// runtime for config hot-reload; the transport settings are not.
type Mailer struct {
	dialer *gomail.Dialer
	from   string

	mu   sync.RWMutex
	rcpt Recipients
}

// NewMailer creates a Mailer. Each Notify dials a fresh SMTP session;
// at most one delivery attempt is made per event, with no retries.
func NewMailer(cfg SMTPConfig, rcpt Recipients) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.SSL = cfg.SSL
	return &Mailer{dialer: d, from: cfg.From, rcpt: rcpt}
}

// SetRecipients swaps the recipient routing (config hot-reload).
func (m *Mailer) SetRecipients(rcpt Recipients) {
	m.mu.Lock()
	m.rcpt = rcpt
	m.mu.Unlock()
}

// Notify renders the alert for ev and sends it. The send blocks the
// caller; ctx is only consulted before dialing.
func (m *Mailer) Notify(ctx context.Context, ev event.Incoming) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	rcpt := m.rcpt
	m.mu.RUnlock()

	emergency := ev.EventType == event.TypeEmergency

	to := rcpt.EmergencyTo
	if !emergency || len(to) == 0 {
		to = append([]string{rcpt.PrimaryTo}, rcpt.ExtraTo...)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	if emergency {
		msg.SetHeader("Subject", emergencySubject(ev))
		msg.SetBody("text/plain", emergencyBody(ev))
		msg.SetHeader("X-Priority", "1")
		msg.SetHeader("X-MSMail-Priority", "High")
		msg.SetHeader("Importance", "High")
	} else {
		if len(rcpt.CC) > 0 {
			msg.SetHeader("Cc", rcpt.CC...)
		}
		if len(rcpt.BCC) > 0 {
			msg.SetHeader("Bcc", rcpt.BCC...)
		}
		msg.SetHeader("Subject", normalSubject(ev))
		msg.SetBody("text/plain", normalBody(ev))
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}
	return nil
}
