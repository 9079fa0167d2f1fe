package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("placing order: %w", InvalidState("Event already happened."))

	assert.Equal(t, ERR_INVALID_STATE, KindOf(wrapped))
	assert.Equal(t, ERR_NOT_FOUND, KindOf(NotFound("Order %s not found.", "x")))
	assert.Equal(t, ERR_INTERNAL, KindOf(errors.New("connection reset")))
	assert.True(t, IsKind(Conflict("Ticket already refunded."), ERR_CONFLICT))
	assert.False(t, IsKind(nil, ERR_CONFLICT))
}

func TestAppErrorMessage(t *testing.T) {
	err := &AppError{Kind: ERR_INTERNAL, Message: "saving order", Err: errors.New("boom")}

	assert.Equal(t, "saving order: boom", err.Error())
	assert.Equal(t, "Order abc not found.", NotFound("Order %s not found.", "abc").Error())
}
