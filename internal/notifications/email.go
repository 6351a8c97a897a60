package notifications

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailSender delivers a single notification email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESChannel sends email through AWS SES.
type SESChannel struct {
	client *sesv2.Client
	from   string
}

// NewSESChannel creates an SES email channel using the default AWS
// credential chain.
func NewSESChannel(ctx context.Context, region, from string) (*SESChannel, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESChannel{
		client: sesv2.NewFromConfig(cfg),
		from:   from,
	}, nil
}

func (c *SESChannel) Send(ctx context.Context, to, subject, body string) error {
	_, err := c.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
