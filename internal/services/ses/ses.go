// Package ses provides match digest emails via AWS SES.
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "github.com/Mishra-Manit/bedathon/internal/config"
	"github.com/Mishra-Manit/bedathon/internal/models"
	"github.com/Mishra-Manit/bedathon/internal/utils"
)

// Service handles SES email operations
type Service struct {
	client    *ses.Client
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
	CC       []string
	BCC      []string
}

// MatchDigestParams contains data for a match digest email
type MatchDigestParams struct {
	RecipientName  string
	RecipientEmail string
	MatchCount     int
	TopMatches     []MatchInfo
	DashboardURL   string
}

// MatchInfo contains info about a single match for the digest
type MatchInfo struct {
	CandidateName string
	Kind          string
	Percentage    int
	Reasons       []string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	appCfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	client := ses.NewFromConfig(cfg)

	return &Service{
		client:    client,
		fromEmail: appCfg.SESSenderEmail,
	}, nil
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if len(params.CC) > 0 {
		input.Destination.CcAddresses = params.CC
	}

	if len(params.BCC) > 0 {
		input.Destination.BccAddresses = params.BCC
	}

	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.Logger.Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	utils.Logger.Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", *result.MessageId),
	)

	return &SendEmailResult{
		MessageID: *result.MessageId,
		SentAt:    time.Now(),
	}, nil
}

// SendMatchDigest sends a roommate/listing match digest email
func (s *Service) SendMatchDigest(ctx context.Context, params MatchDigestParams) (*SendEmailResult, error) {
	htmlBody, err := s.renderMatchDigestHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	textBody := s.renderMatchDigestText(params)

	subject := fmt.Sprintf("%s, you have %d new housing matches", params.RecipientName, params.MatchCount)

	return s.SendEmail(ctx, EmailParams{
		To:       params.RecipientEmail,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
}

// SendBatchMatchDigests sends match digests to multiple recipients
func (s *Service) SendBatchMatchDigests(ctx context.Context, digests []MatchDigestParams) ([]SendEmailResult, []error) {
	results := make([]SendEmailResult, 0, len(digests))
	errors := make([]error, 0)

	for _, digest := range digests {
		result, err := s.SendMatchDigest(ctx, digest)
		if err != nil {
			errors = append(errors, fmt.Errorf("failed to send to %s: %w", digest.RecipientEmail, err))
			continue
		}
		results = append(results, *result)
	}

	utils.Logger.Info("Batch digests sent",
		zap.Int("total", len(digests)),
		zap.Int("success", len(results)),
		zap.Int("failed", len(errors)),
	)

	return results, errors
}

// BuildMatchDigestParams creates digest params from ranked results. Candidate
// names are looked up from the profile/listing stores by the caller.
func BuildMatchDigestParams(recipientName, recipientEmail string, kind models.MatchKind, results []models.MatchResult, names map[string]string, dashboardURL string) MatchDigestParams {
	topMatches := make([]MatchInfo, 0, len(results))

	for _, result := range results {
		name, ok := names[result.CandidateID]
		if !ok {
			name = result.CandidateID
		}

		topMatches = append(topMatches, MatchInfo{
			CandidateName: name,
			Kind:          string(kind),
			Percentage:    result.Percentage,
			Reasons:       result.Reasons,
		})
	}

	return MatchDigestParams{
		RecipientName:  recipientName,
		RecipientEmail: recipientEmail,
		MatchCount:     len(results),
		TopMatches:     topMatches,
		DashboardURL:   dashboardURL,
	}
}

// renderMatchDigestHTML renders the HTML email template
func (s *Service) renderMatchDigestHTML(params MatchDigestParams) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        .match-card { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .match-card h3 { margin: 0 0 10px 0; color: #667eea; }
        .match-card .reasons { color: #666; font-size: 14px; margin: 10px 0 0 0; padding-left: 18px; }
        .score-badge { display: inline-block; background: #28a745; color: white; padding: 5px 12px; border-radius: 20px; font-weight: bold; }
        .cta-button { display: inline-block; background: #667eea; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 20px; }
        .footer { text-align: center; margin-top: 30px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>New Housing Matches Found!</h1>
        <p>Hi {{.RecipientName}}, we found {{.MatchCount}} matches for you</p>
    </div>
    <div class="content">
        <p>Based on your preferences, here are your best matches:</p>

        {{range .TopMatches}}
        <div class="match-card">
            <h3>{{.CandidateName}} <span class="score-badge">{{.Percentage}}%</span></h3>
            {{if .Reasons}}
            <ul class="reasons">
                {{range .Reasons}}<li>{{.}}</li>{{end}}
            </ul>
            {{end}}
        </div>
        {{end}}

        {{if .DashboardURL}}
        <div style="text-align: center;">
            <a href="{{.DashboardURL}}" class="cta-button">View All Matches</a>
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>This email was sent by Bedathon</p>
        <p>You received this because you created a roommate profile.</p>
    </div>
</body>
</html>`

	t, err := template.New("match_digest").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderMatchDigestText renders plain text version
func (s *Service) renderMatchDigestText(params MatchDigestParams) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", params.RecipientName))
	buf.WriteString(fmt.Sprintf("We found %d matches for your housing preferences.\n\n", params.MatchCount))
	buf.WriteString("Here are your top matches:\n\n")

	for i, match := range params.TopMatches {
		buf.WriteString(fmt.Sprintf("%d. %s (%d%% match)\n", i+1, match.CandidateName, match.Percentage))
		for _, reason := range match.Reasons {
			buf.WriteString(fmt.Sprintf("   - %s\n", reason))
		}
		buf.WriteString("\n")
	}

	if params.DashboardURL != "" {
		buf.WriteString(fmt.Sprintf("View all matches: %s\n\n", params.DashboardURL))
	}

	buf.WriteString("Best regards,\nThe Bedathon Team\n")

	return buf.String()
}

// VerifyEmailAddress verifies an email address for sending
func (s *Service) VerifyEmailAddress(ctx context.Context, email string) error {
	input := &ses.VerifyEmailAddressInput{
		EmailAddress: aws.String(email),
	}

	_, err := s.client.VerifyEmailAddress(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	utils.Logger.Info("Email verification initiated", zap.String("email", email))
	return nil
}

// GetSendQuota returns the current SES sending quota
func (s *Service) GetSendQuota(ctx context.Context) (*ses.GetSendQuotaOutput, error) {
	result, err := s.client.GetSendQuota(ctx, &ses.GetSendQuotaInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get send quota: %w", err)
	}
	return result, nil
}
