package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulated_Behaviors(t *testing.T) {
	gw := NewSimulated(SimulatedConfig{
		Behaviors: map[string]Behavior{
			"good-account":    BehaviorAccept,
			"blocked-account": BehaviorReject,
			"flaky-account":   BehaviorUnavailable,
		},
		Default: BehaviorAccept,
	})

	ref, err := gw.RequestTopUp(context.Background(), 100, "good-account")
	assert.NoError(t, err)
	assert.NotEmpty(t, ref)

	_, err = gw.RequestDebit(context.Background(), 100, "blocked-account")
	assert.ErrorIs(t, err, ErrRejected)

	_, err = gw.RequestDebit(context.Background(), 100, "flaky-account")
	assert.ErrorIs(t, err, ErrUnavailable)

	// Unknown counterparties fall back to the default.
	ref, err = gw.RequestDebit(context.Background(), 100, "someone-else")
	assert.NoError(t, err)
	assert.NotEmpty(t, ref)
}

func TestSimulated_DefaultReject(t *testing.T) {
	gw := NewSimulated(SimulatedConfig{Default: BehaviorReject})
	_, err := gw.RequestTopUp(context.Background(), 100, "anyone")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestSimulated_CanceledContext(t *testing.T) {
	gw := NewSimulated(SimulatedConfig{Default: BehaviorAccept, Latency: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := gw.RequestTopUp(ctx, 100, "good-account")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}
