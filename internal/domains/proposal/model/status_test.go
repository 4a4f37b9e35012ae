package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"splitlease/internal/domains/proposal/model"
)

func TestParseStatus(t *testing.T) {
	status, ok := model.ParseStatus("Host Review")
	assert.True(t, ok)
	assert.Equal(t, model.StatusHostReview, status)

	status, ok = model.ParseStatus("Cancelled by Guest")
	assert.True(t, ok)
	assert.True(t, status.IsTerminal())

	_, ok = model.ParseStatus("Something Retired")
	assert.False(t, ok)

	_, ok = model.ParseStatus("")
	assert.False(t, ok)
}

func TestUsualOrder_DerivedFromStatus(t *testing.T) {
	tests := []struct {
		status model.Status
		order  int
	}{
		{model.StatusSubmitted, 0},
		{model.StatusAwaitingRentalApplication, 0},
		{model.StatusPendingConfirmation, 0},
		{model.StatusHostReview, 1},
		{model.StatusHostCounterofferSubmitted, 2},
		{model.StatusHostApproved, 3},
		{model.StatusDocumentsSentForReview, 4},
		{model.StatusDocumentsSentForSignatures, 5},
		{model.StatusSignedAwaitingPayment, 6},
		{model.StatusInitialPaymentSubmitted, 7},
		{model.StatusCancelledByGuest, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.order, tt.status.UsualOrder(), string(tt.status))
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, model.CanTransition(model.StatusSubmitted, model.StatusAwaitingRentalApplication))
	assert.True(t, model.CanTransition(model.StatusHostReview, model.StatusHostCounterofferSubmitted))
	assert.True(t, model.CanTransition(model.StatusHostCounterofferSubmitted, model.StatusHostApproved))
	assert.True(t, model.CanTransition(model.StatusSignedAwaitingPayment, model.StatusInitialPaymentSubmitted))

	// No skipping ahead, no leaving a terminal state.
	assert.False(t, model.CanTransition(model.StatusSubmitted, model.StatusInitialPaymentSubmitted))
	assert.False(t, model.CanTransition(model.StatusCancelledByGuest, model.StatusSubmitted))
	assert.False(t, model.CanTransition(model.StatusRejectedByHost, model.StatusHostReview))
	assert.False(t, model.CanTransition(model.StatusInitialPaymentSubmitted, model.StatusHostReview))

	// Unknown statuses cannot transition anywhere.
	assert.False(t, model.CanTransition(model.Status("Mystery"), model.StatusSubmitted))
}

func TestTerminalsCarryNoOrder(t *testing.T) {
	for _, status := range []model.Status{
		model.StatusCancelledByGuest,
		model.StatusCancelledBySplitLease,
		model.StatusRejectedByHost,
	} {
		assert.True(t, status.IsTerminal())
		assert.Equal(t, 0, status.UsualOrder())
	}
}
