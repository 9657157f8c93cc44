package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

type twilioSender struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

func newTwilioSender(accountSID, authToken, from string) *twilioSender {
	return &twilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     http.DefaultClient,
	}
}

func (t *twilioSender) sendSMS(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("[notify] failed to send SMS: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[notify] Twilio returned status %d: %s", resp.StatusCode, detail)
		return fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}

	return nil
}
