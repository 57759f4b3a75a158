package notifier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

type SMSResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SendOrderSMS confirms a placed order to the customer's phone via the
// AfricasTalking messaging API.
func (n *Notifier) SendOrderSMS(toPhoneNumber, orderRef string, totalAmount float64) error {
	if !n.smsConfigured() {
		log.Debug().Str("orderRef", orderRef).Msg("SMS notifier not configured, skipping")
		return nil
	}

	message := fmt.Sprintf("Your GIVENTO order %s has been placed! Total: %.2f EGP. Thank you for shopping with us!", orderRef, totalAmount)

	data := url.Values{}
	data.Set("username", n.sms.Username)
	data.Set("to", toPhoneNumber)
	data.Set("message", message)
	data.Set("from", n.sms.SenderID)

	req, err := http.NewRequest("POST", n.sms.SMSURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", n.sms.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("orderRef", orderRef).Str("to", toPhoneNumber).Msg("SMS send failed")
		return fmt.Errorf("SMS send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var smsResp SMSResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&smsResp); decodeErr == nil {
			log.Error().Int("status", resp.StatusCode).Str("message", smsResp.SMSMessageData.Message).Str("orderRef", orderRef).Msg("SMS API returned error")
		} else {
			log.Error().Int("status", resp.StatusCode).Err(decodeErr).Str("orderRef", orderRef).Msg("SMS API returned non-success status and undecodable body")
		}
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode)
	}

	var smsResp SMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&smsResp); err != nil {
		return fmt.Errorf("failed to decode SMS response: %w", err)
	}

	log.Info().Str("orderRef", orderRef).Str("to", toPhoneNumber).Msg("order confirmation SMS sent")
	return nil
}
