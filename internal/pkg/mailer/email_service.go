package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWorkflowOutcome(toEmail, workflowName, sessionID, status, errMsg string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendWorkflowOutcome notifies the operator inbox that a workflow run
// reached a terminal state.
func (s *emailService) SendWorkflowOutcome(toEmail, workflowName, sessionID, status, errMsg string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Workflow %s: %s", workflowName, status))

	detail := ""
	if errMsg != "" {
		detail = fmt.Sprintf("<p style=\"color: #c0392b;\">Error: %s</p>", errMsg)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s finished with status: %s</h2>
			<p>Session: <code>%s</code></p>
			%s
		</div>
	`, workflowName, status, sessionID, detail)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send workflow outcome mail: %w", err)
	}
	return nil
}
