package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(ordersTotal.WithLabelValues("place_order", "error"))

	ObserveOperation("place_order", time.Now(), errors.New("not enough seats"))

	assert.Equal(t, before+1, testutil.ToFloat64(ordersTotal.WithLabelValues("place_order", "error")))
}

func TestCounters(t *testing.T) {
	reused := testutil.ToFloat64(ticketsIssued.WithLabelValues("reused"))
	minted := testutil.ToFloat64(ticketsIssued.WithLabelValues("minted"))
	restored := testutil.ToFloat64(seatsRestored)

	TicketsIssued(2, 3)
	SeatsRestored(4)

	assert.Equal(t, reused+2, testutil.ToFloat64(ticketsIssued.WithLabelValues("reused")))
	assert.Equal(t, minted+3, testutil.ToFloat64(ticketsIssued.WithLabelValues("minted")))
	assert.Equal(t, restored+4, testutil.ToFloat64(seatsRestored))
}
