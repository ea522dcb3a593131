// Package mailer sends transactional email through Amazon SES.
package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/config"
)

// SESMailer sends mail through Amazon SES. When no sender address is
// configured the mailer is disabled and every send becomes a logged no-op,
// which keeps local development working without AWS credentials.
type SESMailer struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        zerolog.Logger
}

// NewSESMailer creates a mailer from the application config.
func NewSESMailer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*SESMailer, error) {
	l := log.With().Str("component", "mailer").Logger()

	if cfg.MailFromEmail == "" {
		l.Warn().Msg("Mailer disabled: SES_FROM_EMAIL not configured")
		return &SESMailer{enabled: false, log: l}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	l.Info().Str("from", cfg.MailFromEmail).Str("region", cfg.AWSRegion).Msg("Mailer enabled")
	return &SESMailer{
		client:     sesv2.NewFromConfig(awsCfg),
		fromEmail:  cfg.MailFromEmail,
		fromName:   cfg.MailFromName,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
		log:        l,
	}, nil
}

// Enabled reports whether the mailer will actually send.
func (m *SESMailer) Enabled() bool {
	return m.enabled
}

// SendPasswordReset sends a password reset email carrying the reset link.
func (m *SESMailer) SendPasswordReset(ctx context.Context, toEmail, toName, token string) error {
	if !m.enabled {
		m.log.Info().Str("to", toEmail).Msg("Skipping password reset email: mailer disabled")
		return nil
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", m.appBaseURL, token)
	subject := "Reset your PrepForge password"

	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset the password for your PrepForge account.</p>
<p><a href="%s">Reset your password</a></p>
<p>This link expires in one hour. If you did not request a reset, you can safely ignore this email.</p>`,
		toName, resetLink)

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset the password for your PrepForge account.

Reset your password: %s

This link expires in one hour. If you did not request a reset, you can safely ignore this email.
`, toName, resetLink)

	return m.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (m *SESMailer) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := m.fromEmail
	if m.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	m.log.Info().Str("to", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
