package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESSender sends through AWS SES v2.
type SESSender struct {
	client *sesv2.Client
}

func NewSESSender(ctx context.Context, region, accessKeyID, secretAccessKey string) (*SESSender, error) {
	if region == "" {
		region = "us-east-1"
	}
	if accessKeyID == "" || secretAccessKey == "" {
		return nil, errors.New("ses: access key id and secret access key are required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}

	return &SESSender{client: sesv2.NewFromConfig(cfg)}, nil
}

func (s *SESSender) Send(ctx context.Context, msg *Message) error {
	if _, err := s.client.SendEmail(ctx, toSESInput(msg)); err != nil {
		return fmt.Errorf("ses: %w", err)
	}
	return nil
}

func toSESInput(msg *Message) *sesv2.SendEmailInput {
	utf8 := aws.String("UTF-8")

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: utf8},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: utf8},
				},
			},
		},
	}

	if msg.Text != "" {
		input.Content.Simple.Body.Text = &types.Content{Data: aws.String(msg.Text), Charset: utf8}
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	for k, v := range msg.Headers {
		input.Content.Simple.Headers = append(input.Content.Simple.Headers, types.MessageHeader{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	return input
}
