package services

import (
	"fmt"
	"html"
	"log"

	"gopkg.in/gomail.v2"

	"maidscentre/internal/models"
)

type EmailService interface {
	SendWelcomeEmail(email, name string) error
	SendReceipt(email, name string, tx *models.Transaction) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

// logMailer — без SMTP письма только пишутся в лог.
type logMailer struct{}

func (logMailer) SendWelcomeEmail(email, name string) error {
	log.Printf("[mail][log] welcome -> %s", email)
	return nil
}

func (logMailer) SendReceipt(email, name string, tx *models.Transaction) error {
	log.Printf("[mail][log] receipt %s -> %s", tx.Reference, email)
	return nil
}

// NewEmailService с пустым smtp_host возвращает mailer, который только пишет в лог.
func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	if smtpHost == "" {
		log.Printf("[mail][skip] smtp_host empty, emails go to log")
		return logMailer{}
	}
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

// goAsync уводит отправку с пути запроса: SMTP может висеть до таймаута.
func goAsync(fn func()) { go fn() }

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Maids Centre!")
	m.SetBody("text/html", welcomeBody(name))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendReceipt(email, name string, tx *models.Transaction) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Payment receipt %s", tx.Reference))
	m.SetBody("text/html", receiptBody(name, tx))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}
	return nil
}

func welcomeBody(name string) string {
	return fmt.Sprintf(`
		<h2>Welcome to Maids Centre, %s!</h2>
		<p>Your account has been successfully created.</p>
		<p>Best regards,<br>The Maids Centre Team</p>
	`, html.EscapeString(name))
}

// имена клиентов и сотрудников приходят от пользователей
func receiptBody(name string, tx *models.Transaction) string {
	return fmt.Sprintf(`
		<h3>Thank you for your payment, %s</h3>
		<p>%s</p>
		<p>Amount: <strong>%.2f %s</strong></p>
		<p>Reference: %s<br>Date: %s</p>
		<p>You can download a PDF receipt from your transaction history.</p>
	`, html.EscapeString(name), html.EscapeString(tx.Description), tx.Amount,
		html.EscapeString(tx.Currency), html.EscapeString(tx.Reference), tx.Date.Format("02 Jan 2006 15:04"))
}
