package services

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Notifier is the outbound-email side channel. Callers treat it as
// fire-and-forget: a send failure is logged and swallowed, never
// propagated into the booking flow.
type Notifier interface {
	BookingConfirmed(toEmail, transactionID string) error
}

// SMTPMailer sends through a plain SMTP relay configured from the
// environment.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	if host == "" {
		log.Println("⚠️  SMTP_HOST not set, booking confirmation emails will fail")
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "no-reply@rentwheels-bd.com"
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD")),
		from:   from,
	}
}

func (m *SMTPMailer) BookingConfirmed(toEmail, transactionID string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "RentWheels booking confirmed")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Your booking is confirmed.</p><p>Transaction ID: <b>%s</b></p>", transactionID))

	return m.dialer.DialAndSend(msg)
}
