package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/15palle/membership/internal/config"
)

const codeEmailSubject = "Your 15 Palle login code"

type sesNotifier struct {
	client *ses.Client
	sender string
}

// NewSesNotifier builds a notifier which delivers codes by email through AWS SES
func NewSesNotifier(ctx context.Context, cfg config.SesCfg) (CodeNotifier, error) {
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("sender email address is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config - %w", err)
	}

	return &sesNotifier{
		client: ses.NewFromConfig(awsCfg),
		sender: cfg.SenderEmail,
	}, nil
}

func (n *sesNotifier) SendVerificationCode(ctx context.Context, email string, code string) error {
	body := fmt.Sprintf(
		"Your login code is %s.\n\nIt expires in a few minutes and can be used only once.\n"+
			"If you did not request it, ignore this message.",
		code,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(codeEmailSubject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send verification code email - %w", err)
	}
	return nil
}
