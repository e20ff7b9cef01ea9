package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendIdeaNotification(toEmail, connectionID, title, description string, impactedUsers int) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendIdeaNotification(toEmail, connectionID, title, description string, impactedUsers int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("New idea submitted: %s", title))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New Idea Submission</h2>
			<p><b>Connection:</b> %s</p>
			<p><b>Title:</b> %s</p>
			<p><b>Description:</b> %s</p>
			<p><b>Estimated impact:</b> ~%d users</p>
		</div>
	`, connectionID, title, description, impactedUsers)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send idea notification to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Idea notification sent to %s\n", toEmail)
	return nil
}
