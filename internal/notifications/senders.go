package notifications

import (
	"fmt"

	twilio "github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	gomail "gopkg.in/gomail.v2"
)

// EmailSender отправляет письмо с HTML-телом.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

// MessageSender отправляет короткое текстовое сообщение (SMS или чат).
type MessageSender interface {
	Send(to, body string) error
}

// SMTPEmailSender реализует EmailSender через SMTP.
type SMTPEmailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPEmailSender создаёт отправителя писем.
// Возвращает nil, если SMTP не сконфигурирован: канал просто пропускается.
func NewSMTPEmailSender(host string, port int, user, pass string) *SMTPEmailSender {
	if host == "" || user == "" {
		return nil
	}
	return &SMTPEmailSender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   fmt.Sprintf("ClickQueue <%s>", user),
	}
}

// Send отправляет письмо.
func (s *SMTPEmailSender) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// TwilioSender реализует MessageSender через Twilio.
// Один и тот же клиент обслуживает SMS и WhatsApp, различаются
// только адреса from/to (канал WhatsApp использует префикс whatsapp:).
type TwilioSender struct {
	client   *twilio.RestClient
	from     string
	whatsapp bool
}

// NewTwilioSMSSender создаёт SMS-отправителя. Возвращает nil без конфигурации.
func NewTwilioSMSSender(accountSID, authToken, from string) *TwilioSender {
	return newTwilioSender(accountSID, authToken, from, false)
}

// NewTwilioWhatsAppSender создаёт WhatsApp-отправителя. Возвращает nil без конфигурации.
func NewTwilioWhatsAppSender(accountSID, authToken, from string) *TwilioSender {
	return newTwilioSender(accountSID, authToken, from, true)
}

func newTwilioSender(accountSID, authToken, from string, whatsapp bool) *TwilioSender {
	if accountSID == "" || authToken == "" || from == "" {
		return nil
	}
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from:     from,
		whatsapp: whatsapp,
	}
}

// Send отправляет сообщение на индийский номер телефона.
func (s *TwilioSender) Send(to, body string) error {
	dest := "+91" + to
	from := s.from
	if s.whatsapp {
		dest = "whatsapp:" + dest
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(dest)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send message to %s: %w", dest, err)
	}
	return nil
}
