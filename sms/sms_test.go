package sms

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// fakeTransport records sent messages and fails for recipients listed in failFor.
type fakeTransport struct {
	sent    []openapi.CreateMessageParams
	failFor map[string]bool
	nextSid int
}

func (f *fakeTransport) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	if params.To != nil && f.failFor[*params.To] {
		return nil, fmt.Errorf("transport error for %s", *params.To)
	}
	f.sent = append(f.sent, *params)
	f.nextSid++
	sid := fmt.Sprintf("SM%08d", f.nextSid)
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func newTestService(failFor map[string]bool) (*Service, *fakeTransport) {
	ft := &fakeTransport{failFor: failFor}
	return newServiceWithTransport(ft, "+15550001111", zerolog.Nop()), ft
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+14155551234"))
	assert.NoError(t, ValidatePhone("+442071838750"))
	assert.Error(t, ValidatePhone("abc-not-a-phone"))
	assert.Error(t, ValidatePhone("14155551234")) // no leading +
	assert.Error(t, ValidatePhone("+0123456789")) // country code cannot start with 0
	assert.Error(t, ValidatePhone(""))
}

func TestUnconfiguredServiceIsUnavailable(t *testing.T) {
	svc := NewService(Config{}, zerolog.Nop())
	require.False(t, svc.Available())

	// Every send operation honors the availability check uniformly.
	_, err := svc.SendVerificationCode("+14155551234", "123456")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.SendOrderStatusUpdate("+14155551234", "DE-1001", "shipped")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.SendDeliveryReminder("+14155551234", "DE-1001", "2026-09-01")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.SendLowStockAlert("+14155551234", "USB-C Charger", 2)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = svc.SendPromo("+14155551234", "Sale!")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, svc.Ping(), ErrUnavailable)
}

func TestSendOrderStatusUpdate_Templates(t *testing.T) {
	svc, ft := newTestService(nil)

	sid, err := svc.SendOrderStatusUpdate("+14155551234", "DE-1001", "shipped")
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
	require.Len(t, ft.sent, 1)
	assert.Contains(t, *ft.sent[0].Body, "DE-1001")
	assert.Contains(t, *ft.sent[0].Body, "shipped")

	// Unknown status falls back to the generic template instead of erroring.
	_, err = svc.SendOrderStatusUpdate("+14155551234", "DE-1002", "teleported")
	require.NoError(t, err)
	require.Len(t, ft.sent, 2)
	assert.Contains(t, *ft.sent[1].Body, "updated")
}

func TestSend_RejectsInvalidPhone(t *testing.T) {
	svc, ft := newTestService(nil)

	_, err := svc.SendVerificationCode("abc-not-a-phone", "123456")
	require.Error(t, err)
	assert.Empty(t, ft.sent, "nothing should reach the transport for an invalid number")
}

func TestSendBulk_PartialFailureIsolation(t *testing.T) {
	recipients := []string{
		"+14155550001",
		"+14155550002",
		"+14155550003",
		"+14155550004",
	}
	svc, _ := newTestService(map[string]bool{
		"+14155550002": true,
		"+14155550004": true,
	})

	results := svc.SendBulk(recipients, "Flash sale this weekend!")

	require.Len(t, results, len(recipients))
	var sent, failed int
	for i, res := range results {
		assert.Equal(t, recipients[i], res.To, "results must preserve input order")
		switch res.Status {
		case "sent":
			sent++
			assert.NotEmpty(t, res.Sid)
		case "failed":
			failed++
			assert.NotEmpty(t, res.Error)
		default:
			t.Fatalf("unexpected status %q", res.Status)
		}
	}
	assert.Equal(t, 2, sent)
	assert.Equal(t, 2, failed)
}

func TestSendBulk_Unavailable(t *testing.T) {
	svc := NewService(Config{}, zerolog.Nop())
	results := svc.SendBulk([]string{"+14155550001", "+14155550002"}, "hi")

	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, "failed", res.Status)
	}
}
