package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartparking/internal/config"
	"smartparking/internal/entities"
)

type sentEmail struct {
	to, name, subject, plain, html string
}

type fakeEmail struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmail) SendEmail(to, name, subject, plain, html string) error {
	f.sent = append(f.sent, sentEmail{to, name, subject, plain, html})
	return f.err
}

type fakeSMS struct {
	to   []string
	body []string
}

func (f *fakeSMS) SendSMS(to, body string) error {
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return nil
}

func confirmedView() entities.BookingResponse {
	return entities.BookingResponse{
		Code:          "BK-1A2B3C4D",
		LocationName:  "City Centre",
		SlotNumber:    "F001",
		CustomerName:  "Asha Patel",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+919876543210",
		VehicleNumber: "GJ01AB1234",
		BookingDate:   "2026-03-11",
		StartTime:     "09:00",
		EndTime:       "11:30",
		TotalPrice:    100,
	}
}

func syncNotifier(email EmailSender, sms SMSSender) *NotifyService {
	n := NewNotifyService(email, sms, ist)
	n.run = func(f func()) { f() }
	return n
}

func TestNotifyService_BookingConfirmed(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	n := syncNotifier(email, sms)

	n.BookingConfirmed(confirmedView())

	require.Len(t, email.sent, 1)
	msg := email.sent[0]
	assert.Equal(t, "asha@example.com", msg.to)
	assert.Equal(t, "Asha Patel", msg.name)
	assert.Equal(t, "Your Smart Parking booking is confirmed - Code: BK-1A2B3C4D", msg.subject)
	assert.Contains(t, msg.plain, "Slot: F001")
	assert.Contains(t, msg.plain, "Amount: ₹100.00")
	assert.Contains(t, msg.html, "<strong>confirmed</strong>")
	assert.Contains(t, msg.html, "09:00 - 11:30")

	require.Len(t, sms.to, 1)
	assert.Equal(t, "+919876543210", sms.to[0])
	assert.Contains(t, sms.body[0], "booking BK-1A2B3C4D is confirmed")
}

func TestNotifyService_CancelledWithoutSlot(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	sms := &fakeSMS{}
	n := syncNotifier(email, sms)

	view := confirmedView()
	view.SlotNumber = ""
	n.BookingCancelled(view)

	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0].plain, "Slot: -")
	assert.Contains(t, email.sent[0].subject, "cancelled")
	assert.Len(t, sms.to, 1, "SMS is still sent when email fails")
}

func TestSenders_SkipWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}

	assert.NoError(t, NewSendGridSender(cfg).SendEmail("a@example.com", "A", "s", "p", "<p>h</p>"))
	assert.NoError(t, NewTwilioSender(cfg).SendSMS("+910000000000", "hi"))
}
