package notifier

import (
	"fmt"
	"math"
	"net/smtp"
	"strings"
	"time"

	"pricetracker/internal/scraper"
	"pricetracker/logger"
	apperrors "pricetracker/pkg/errors"
)

// SMTPConfig holds the mail delivery settings.
type SMTPConfig struct {
	Server   string
	Port     string
	Username string
	Password string
	From     string
	To       string
}

// EmailNotifier implements Notifier over SMTP. With an incomplete
// configuration every alert is silently skipped (logged), so the
// tracker runs unattended without mail credentials.
type EmailNotifier struct {
	cfg SMTPConfig
	log *logger.Logger

	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier creates a new SMTP-backed notifier
func NewEmailNotifier(cfg SMTPConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:  cfg,
		log:  logger.ForNotifier(),
		send: smtp.SendMail,
	}
}

// Enabled reports whether the SMTP configuration is complete enough to
// deliver mail.
func (n *EmailNotifier) Enabled() bool {
	return n.cfg.Server != "" && n.cfg.Username != "" && n.cfg.Password != "" && n.cfg.From != "" && n.cfg.To != ""
}

// PriceDrop alerts that a product's price fell below its previous price.
func (n *EmailNotifier) PriceDrop(target scraper.ProductTarget, oldPrice, newPrice float64, currency string) error {
	subject := fmt.Sprintf("Price Drop Alert: %s", target.Name)
	savings := oldPrice - newPrice
	percent := math.Round(savings/oldPrice*100*100) / 100

	message := fmt.Sprintf(`Price Drop Alert!

Product: %s
Old Price: %s%.2f
New Price: %s%.2f
You Save: %s%.2f (%.2f%%)

View the product: %s`,
		target.Name, currency, oldPrice, currency, newPrice, currency, savings, percent, target.URL)

	return n.sendNotification(subject, message)
}

// ThresholdReached alerts that a product's price fell to or below its
// configured threshold.
func (n *EmailNotifier) ThresholdReached(target scraper.ProductTarget, price, threshold float64, currency string) error {
	subject := fmt.Sprintf("Price Threshold Alert: %s", target.Name)

	message := fmt.Sprintf(`Price Threshold Alert!

Product: %s
Current Price: %s%.2f
Threshold: %s%.2f

The price is now at or below your configured threshold!

View the product: %s`,
		target.Name, currency, price, currency, threshold, target.URL)

	return n.sendNotification(subject, message)
}

func (n *EmailNotifier) sendNotification(subject, message string) error {
	if !n.Enabled() {
		n.log.Warn().Msg("Email configuration incomplete, notification skipped")
		return nil
	}

	body := composeMessage(n.cfg.From, n.cfg.To, subject, message)

	addr := n.cfg.Server + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Server)

	if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, body); err != nil {
		n.log.Error().Err(err).Str("to", n.cfg.To).Msg("Failed to send notification email")
		return apperrors.NewNotification("failed to send notification email", err)
	}

	n.log.Info().Str("to", n.cfg.To).Str("subject", subject).Msg("Notification email sent")
	return nil
}

// composeMessage builds a multipart/alternative message with plain and
// HTML bodies, stamped with the send time.
func composeMessage(from, to, subject, message string) []byte {
	const boundary = "pricetracker-alert"

	full := fmt.Sprintf("%s\n\nSent at: %s", message, time.Now().Format("2006-01-02 15:04:05"))
	html := fmt.Sprintf("<html>\n  <body>\n    <p>%s</p>\n  </body>\n</html>", strings.ReplaceAll(full, "\n", "<br>"))

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(full)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}
