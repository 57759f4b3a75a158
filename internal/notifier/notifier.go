package notifier

import (
	"github.com/Abbrahem/GIVENTO/configs"
)

// Notifier sends the order-confirmation SMS to the customer and the
// new-order email to the store admin. Either channel is skipped when its
// config is incomplete; checkout never fails because of a notification.
type Notifier struct {
	sms   config.SMSConfig
	email config.EmailConfig
}

func New(sms config.SMSConfig, email config.EmailConfig) *Notifier {
	return &Notifier{sms: sms, email: email}
}

func (n *Notifier) smsConfigured() bool {
	return n.sms.Username != "" && n.sms.APIKey != ""
}

func (n *Notifier) emailConfigured() bool {
	return n.email.SenderEmail != "" && n.email.AdminEmail != ""
}
