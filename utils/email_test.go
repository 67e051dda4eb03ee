package utils_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dollers-electro/utils"
)

func TestEmailService_Unconfigured(t *testing.T) {
	es := utils.NewEmailService(utils.EmailConfig{}, zerolog.Nop())

	assert.False(t, es.TransactionalAvailable())
	assert.False(t, es.PromotionalAvailable())

	err := es.SendEmail("someone@example.com", "subject", "body")
	assert.ErrorIs(t, err, utils.ErrEmailUnavailable)
	err = es.SendVerificationEmail("someone@example.com", "token")
	assert.ErrorIs(t, err, utils.ErrEmailUnavailable)
	err = es.SendPasswordResetEmail("someone@example.com", "token")
	assert.ErrorIs(t, err, utils.ErrEmailUnavailable)
}

func TestSendPromotionalBlast_UnavailableKeepsPerRecipientSlots(t *testing.T) {
	es := utils.NewEmailService(utils.EmailConfig{}, zerolog.Nop())

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	results := es.SendPromotionalBlast(recipients, "Sale", "<b>Sale!</b>")

	require.Len(t, results, len(recipients))
	for i, res := range results {
		assert.Equal(t, recipients[i], res.Email, "results must preserve input order")
		assert.Equal(t, "failed", res.Status)
		assert.NotEmpty(t, res.Error)
	}
}
