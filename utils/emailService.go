package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
	"strings"
)

// SendEmail delivers an HTML mail through the configured SMTP relay.
// A blank sender disables mail entirely (local development, tests).
func SendEmail(to []string, subject string, htmlBody string) error {
	from := config.AppConfig.EmailSender
	if from == "" {
		log.Printf("Email sending disabled, skipping %q to %v", subject, to)
		return nil
	}

	smtpHost := config.AppConfig.SMTPHost
	smtpPort := config.AppConfig.SMTPPort
	password := config.AppConfig.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Course Platform <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// SendWelcomeEmail greets a freshly registered user
func SendWelcomeEmail(email, userName string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Welcome aboard!</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s,</p>
					<p style="font-size: 16px; color: #555555;">Your account has been created. Browse the catalog, enroll in a course and start learning.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Course Platform Team</p>
				</div>
			</body>
		</html>
	`, userName)

	return SendEmail([]string{email}, "Welcome to Course Platform", body)
}

// SendEnrollmentEmail confirms an enrollment
func SendEnrollmentEmail(email, userName, courseTitle string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Enrollment Successful!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">You have successfully enrolled in:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #666666;">Complete lessons to track your progress towards 100%%.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Happy Learning!</p>
				</div>
			</body>
		</html>
	`, userName, courseTitle)

	return SendEmail([]string{email}, "Course Enrollment Confirmation", body)
}
