package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const lineNotifyURL = "https://notify-api.line.me/api/notify"

// Notifier fans a confirmed booking out to the operations LINE channel and
// to the customer's email. Delivery is best-effort; failures are logged and
// never fail the booking.
type Notifier struct {
	LineToken      string
	SendgridAPIKey string
	FromEmail      string
	FromName       string
	Client         *http.Client
}

func NewNotifier(lineToken, sendgridAPIKey, fromEmail, fromName string) *Notifier {
	if fromName == "" {
		fromName = "LENGOLF"
	}
	return &Notifier{
		LineToken:      lineToken,
		SendgridAPIKey: sendgridAPIKey,
		FromEmail:      fromEmail,
		FromName:       fromName,
		Client:         &http.Client{Timeout: 15 * time.Second},
	}
}

// BookingCreated sends the operations notification and the customer
// confirmation for a committed booking.
func (n *Notifier) BookingCreated(ctx context.Context, req BookingRequest, conf *BookingConfirmation, asg *Assignment) {
	if n.LineToken != "" {
		if err := n.sendLine(ctx, req, asg); err != nil {
			log.Printf("LINE notification failed for booking %s: %v", conf.EventID, err)
		}
	}
	if n.SendgridAPIKey != "" && req.Email != "" {
		if err := n.sendEmail(req, conf, asg); err != nil {
			log.Printf("confirmation email failed for booking %s: %v", conf.EventID, err)
		}
	}
}

func (n *Notifier) sendLine(ctx context.Context, req BookingRequest, asg *Assignment) error {
	msg := fmt.Sprintf(`Booking Notification
Name: %s
Email: %s
Phone: %s
Date: %s
Time: %s - %s
Bay: %s

This booking has been auto-confirmed. No need to re-confirm with the customer. Please double check bay selection.`,
		req.UserName, req.Email, req.PhoneNumber, req.Date,
		asg.Start.Format(TimeLayout), asg.End.Format(TimeLayout), asg.Bay.Name)

	form := url.Values{"message": {msg}}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, lineNotifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+n.LineToken)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.Client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("LINE notify returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

func (n *Notifier) sendEmail(req BookingRequest, conf *BookingConfirmation, asg *Assignment) error {
	subject := fmt.Sprintf("Your LENGOLF booking is confirmed - %s %s", conf.Date, conf.StartTime)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour booking is confirmed.\n\n"+
			"Date: %s\nTime: %s - %s\nBay: %s\nDuration: %d hour(s)\nPeople: %d\n\n"+
			"See you at LENGOLF!",
		req.UserName, conf.Date,
		asg.Start.Format(TimeLayout), asg.End.Format(TimeLayout),
		conf.Bay, conf.Duration, req.NumberOfPeople)

	from := mail.NewEmail(n.FromName, n.FromEmail)
	to := mail.NewEmail(req.UserName, req.Email)
	message := mail.NewSingleEmail(from, subject, to, plain, "")

	client := sendgrid.NewSendClient(n.SendgridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
