package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/rs/zerolog/log"
)

// SendNewOrderEmail alerts the store admin that an order came in, via SES.
func (n *Notifier) SendNewOrderEmail(orderRef, customerName, customerPhone string, totalAmount float64) error {
	if !n.emailConfigured() {
		log.Debug().Str("orderRef", orderRef).Msg("email notifier not configured, skipping")
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(n.email.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(n.email.AWSAccessKeyID, n.email.AWSSecretAccessKey, "")),
	)
	if err != nil {
		log.Error().Err(err).Str("orderRef", orderRef).Msg("failed to load AWS SDK config")
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)

	subject := fmt.Sprintf("New order %s - %.2f EGP", orderRef, totalAmount)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>A new order just came in.</p>
            <ul>
                <li>Order: %s</li>
                <li>Customer: %s</li>
                <li>Phone: %s</li>
                <li>Total: %.2f EGP</li>
            </ul>
            <p>Open the admin dashboard to confirm it.</p>
        </body>
        </html>`, orderRef, customerName, customerPhone, totalAmount)

	bodyText := fmt.Sprintf(
		"A new order just came in.\n\nOrder: %s\nCustomer: %s\nPhone: %s\nTotal: %.2f EGP\n\nOpen the admin dashboard to confirm it.",
		orderRef, customerName, customerPhone, totalAmount)

	input := &ses.SendEmailInput{
		Source: aws.String(n.email.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{n.email.AdminEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := client.SendEmail(context.TODO(), input); err != nil {
		log.Error().Err(err).Str("orderRef", orderRef).Msg("failed to send new-order email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("orderRef", orderRef).Str("to", n.email.AdminEmail).Msg("new-order email sent")
	return nil
}
