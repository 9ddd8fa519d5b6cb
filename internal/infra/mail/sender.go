package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendInvite mails a newly created user their first-login setup link.
func (s *EmailSender) SendInvite(to, name, loginURL string) error {
	body, err := renderTemplate("invite.html", inviteEmailData{Name: name, LoginURL: loginURL})
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Welcome to PipeCRM, %s", name), body)
}

// SendConversionNotice tells a rep one of their leads became a deal.
func (s *EmailSender) SendConversionNotice(to, ownerName, dealName string, value float64) error {
	body, err := renderTemplate("conversion.html", dealEmailData{Name: ownerName, DealName: dealName, Value: value})
	if err != nil {
		return err
	}
	return s.send(to, "A lead of yours just converted", body)
}

func (s *EmailSender) SendDealWonNotice(to, ownerName, dealName string, value float64) error {
	body, err := renderTemplate("deal_won.html", dealEmailData{Name: ownerName, DealName: dealName, Value: value})
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Deal won: %s", dealName), body)
}

func renderTemplate(name string, data any) (string, error) {
	t, err := template.ParseFiles(filepath.Join("templates", name))
	if err != nil {
		return "", fmt.Errorf("parse mail template %s: %w", name, err)
	}
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render mail template %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *EmailSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail via SMTP: %w", err)
	}
	return nil
}
