package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"smartparking/internal/booking"
	"smartparking/internal/config"
	"smartparking/internal/entities"
)

//go:embed templates/booking_email.html
var templateFS embed.FS

var bookingEmailTemplate = template.Must(template.ParseFS(templateFS, "templates/booking_email.html"))

type EmailSender interface {
	SendEmail(toEmail, toName, subject, plainText, html string) error
}

type SMSSender interface {
	SendSMS(toNumber, body string) error
}

// SendGridSender delivers mail through SendGrid. Without an API key or sender
// address every send is skipped with a warning.
type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridSender(cfg *config.Config) *SendGridSender {
	return &SendGridSender{
		apiKey:    cfg.SendGrid.APIKey,
		fromEmail: cfg.SendGrid.FromEmail,
		fromName:  cfg.SendGrid.FromName,
	}
}

func (s *SendGridSender) SendEmail(toEmail, toName, subject, plainText, html string) error {
	if s.apiKey == "" || s.fromEmail == "" {
		log.Warn().Str("to", toEmail).Msg("SendGrid is not configured, email not sent")
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sending email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	log.Info().Str("to", toEmail).Str("subject", subject).Int("status", response.StatusCode).Msg("Email sent")
	return nil
}

// TwilioSender delivers SMS through Twilio. Incomplete credentials skip the send.
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
}

func NewTwilioSender(cfg *config.Config) *TwilioSender {
	return &TwilioSender{
		accountSID: cfg.Twilio.AccountSID,
		authToken:  cfg.Twilio.AuthToken,
		fromNumber: cfg.Twilio.FromNumber,
	}
}

func (s *TwilioSender) SendSMS(toNumber, body string) error {
	if s.accountSID == "" || s.authToken == "" || s.fromNumber == "" {
		log.Warn().Str("to", toNumber).Msg("Twilio is not configured, SMS not sent")
		return nil
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Warn().Str("to", toNumber).Msg("Destination number is not in E.164 format, SMS may fail")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.accountSID,
		Password:   s.authToken,
		AccountSid: s.accountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending SMS via Twilio: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Info().Str("to", toNumber).Str("sid", *resp.Sid).Msg("SMS sent")
	}
	return nil
}

// NotifyService tells customers about booking status changes by email and SMS.
// Sends run in the background and failures are only logged.
type NotifyService struct {
	email EmailSender
	sms   SMSSender
	loc   *time.Location
	run   func(func())
}

func NewNotifyService(email EmailSender, sms SMSSender, loc *time.Location) *NotifyService {
	return &NotifyService{
		email: email,
		sms:   sms,
		loc:   loc,
		run:   func(f func()) { go f() },
	}
}

func (n *NotifyService) BookingConfirmed(b entities.BookingResponse) {
	n.notify(b, "confirmed")
}

func (n *NotifyService) BookingCancelled(b entities.BookingResponse) {
	n.notify(b, "cancelled")
}

func (n *NotifyService) notify(b entities.BookingResponse, status string) {
	data := emailData(b, status, time.Now().In(n.loc).Year())

	subject := fmt.Sprintf("Your Smart Parking booking is %s - Code: %s", status, b.Code)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour parking booking is %s.\n\n"+
			"Booking code: %s\nLocation: %s\nSlot: %s\nVehicle: %s\nDate: %s\nTime: %s\nAmount: %s\n\n"+
			"Thank you for choosing Smart Parking.",
		data.CustomerName, status, data.Code, data.LocationName, data.SlotNumber,
		data.VehicleNumber, data.Date, data.TimeRange, data.TotalPrice,
	)

	var html bytes.Buffer
	if err := bookingEmailTemplate.Execute(&html, data); err != nil {
		log.Error().Err(err).Str("code", b.Code).Msg("Error rendering booking email")
		html.Reset()
	}
	sms := fmt.Sprintf("Smart Parking: booking %s is %s. %s %s at %s. More details in your email.",
		b.Code, status, data.Date, data.TimeRange, data.LocationName)

	n.run(func() {
		if err := n.email.SendEmail(b.CustomerEmail, b.CustomerName, subject, plain, html.String()); err != nil {
			log.Error().Err(err).Str("code", b.Code).Msg("Booking email failed")
		}
	})
	n.run(func() {
		if err := n.sms.SendSMS(b.CustomerPhone, sms); err != nil {
			log.Error().Err(err).Str("code", b.Code).Msg("Booking SMS failed")
		}
	})
}

func emailData(b entities.BookingResponse, status string, year int) entities.BookingEmailData {
	slot := b.SlotNumber
	if slot == "" {
		slot = "-"
	}
	return entities.BookingEmailData{
		CustomerName:  b.CustomerName,
		Code:          b.Code,
		LocationName:  b.LocationName,
		VehicleNumber: b.VehicleNumber,
		SlotNumber:    slot,
		Date:          b.BookingDate,
		TimeRange:     fmt.Sprintf("%s - %s", b.StartTime, b.EndTime),
		TotalPrice:    booking.FormatRupees(b.TotalPrice),
		Status:        status,
		CurrentYear:   year,
	}
}
