package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/internal/config"
)

// SMTPNotifier sends reminder emails through a plain SMTP relay.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) SendTaskReminder(ctx context.Context, recipient string, task *domain.ComplianceTask) error {
	if recipient == "" {
		return domain.NewError(domain.ErrCodeInvalid, "reminder recipient is empty")
	}
	if task == nil {
		return domain.ErrInvalidPayload
	}

	subject := fmt.Sprintf("Upcoming compliance deadline: %s", task.TaskName)
	body := n.buildBody(task)
	message := n.buildMessage(recipient, subject, body)

	if err := n.send(recipient, message); err != nil {
		return fmt.Errorf("send reminder for task %s: %w", task.ID, err)
	}

	n.logger.Info("reminder sent",
		zap.String("task_id", task.ID),
		zap.String("recipient", recipient))
	return nil
}

func (n *SMTPNotifier) buildBody(task *domain.ComplianceTask) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your compliance task %q is coming due", task.TaskName)
	if task.DueDate != nil {
		fmt.Fprintf(&b, " on %s", task.DueDate.Format("January 2, 2006"))
	}
	b.WriteString(".\r\n")
	if task.Description != "" {
		b.WriteString("\r\n" + task.Description + "\r\n")
	}
	fmt.Fprintf(&b, "\r\nCategory: %s\r\nPriority: %s\r\n", task.Category, task.Priority)
	return b.String()
}

func (n *SMTPNotifier) buildMessage(recipient, subject, body string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.FromEmail),
		"To":           recipient,
		"Subject":      subject,
		"Content-Type": "text/plain; charset=UTF-8",
	}

	var message strings.Builder
	for key, value := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	message.WriteString("\r\n")
	message.WriteString(body)
	return []byte(message.String())
}

func (n *SMTPNotifier) send(recipient string, message []byte) error {
	serverAddr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if !n.cfg.UseTLS {
		return smtp.SendMail(serverAddr, auth, n.cfg.FromEmail, []string{recipient}, message)
	}

	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: n.cfg.Host})
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}
	if err := client.Mail(n.cfg.FromEmail); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

var _ Notifier = (*SMTPNotifier)(nil)
