package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Mailer handles sending emails
type Mailer struct {
	config Config
}

// New creates a new Mailer instance
func New(cfg Config) *Mailer {
	return &Mailer{config: cfg}
}

// codeEmail is the data behind both one-time-code emails
type codeEmail struct {
	Heading       string
	Accent        string
	Intro         string
	Footer        string
	Username      string
	Code          string
	ExpiryMinutes int
}

var codeTemplate = template.Must(template.New("code").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f6f5f0;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;">
    <div style="max-width:500px;margin:40px auto;background:#ffffff;border-radius:16px;overflow:hidden;border:1px solid #e7e5e4;">
        <div style="background:{{.Accent}};padding:28px;text-align:center;">
            <h1 style="color:#fff;margin:0;font-size:26px;font-weight:700;">FocusHub</h1>
            <p style="color:rgba(255,255,255,0.9);margin:8px 0 0;font-size:14px;">{{.Heading}}</p>
        </div>
        <div style="padding:32px;">
            <p style="color:#1c1917;font-size:16px;line-height:1.6;margin:0 0 20px;">Hi <strong>{{.Username}}</strong>,</p>
            <p style="color:#57534e;font-size:14px;line-height:1.6;margin:0 0 20px;">{{.Intro}}</p>
            <div style="background:#fafaf9;border:2px dashed #d6d3d1;border-radius:12px;padding:20px;text-align:center;margin:0 0 20px;">
                <span style="font-size:34px;font-weight:800;letter-spacing:8px;color:#1c1917;font-family:'Courier New',monospace;">{{.Code}}</span>
            </div>
            <p style="color:#78716c;font-size:13px;margin:0 0 8px;">This code expires in <strong>{{.ExpiryMinutes}} minutes</strong>.</p>
            <p style="color:#78716c;font-size:13px;margin:0;">{{.Footer}}</p>
        </div>
    </div>
</body>
</html>`))

// SendOTP sends an OTP verification email
func (m *Mailer) SendOTP(toEmail, username, code string, expiryMinutes int) error {
	body, err := renderCode(codeEmail{
		Heading:       "Email verification",
		Accent:        "#4f46e5",
		Intro:         "Use this code to verify your email address:",
		Footer:        "If you didn't create a FocusHub account, you can ignore this email.",
		Username:      username,
		Code:          code,
		ExpiryMinutes: expiryMinutes,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return m.send(toEmail, "FocusHub - Verify your email address", body)
}

// SendPasswordReset sends a password reset OTP email
func (m *Mailer) SendPasswordReset(toEmail, username, code string, expiryMinutes int) error {
	body, err := renderCode(codeEmail{
		Heading:       "Password reset",
		Accent:        "#dc2626",
		Intro:         "We received a request to reset your password. Use this code:",
		Footer:        "If you didn't request a reset, your password stays unchanged.",
		Username:      username,
		Code:          code,
		ExpiryMinutes: expiryMinutes,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return m.send(toEmail, "FocusHub - Reset your password", body)
}

func renderCode(data codeEmail) (string, error) {
	var buf bytes.Buffer
	if err := codeTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildMessage assembles headers and body in a fixed order
func (m *Mailer) buildMessage(to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.config.FromName, m.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}

// send delivers an email via SMTP
func (m *Mailer) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, m.buildMessage(to, subject, htmlBody)); err != nil {
		slog.Error("failed to send email", "to", to, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}
