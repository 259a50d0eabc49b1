package debin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"plata/internal/models"
	"plata/internal/services/gateway"
	"plata/internal/services/wallet"
)

// startWorker builds a service backed by store whose requests are
// settled by a running worker talking to the given simulated bank.
func startWorker(t *testing.T, store *memStore, gw gateway.Gateway) (Service, *Worker) {
	t.Helper()
	walletSvc := wallet.NewService(&memWalletRepo{store: store}, gw)
	svc := NewService(&memDebinRepo{store: store}, walletSvc, nil)
	worker := NewWorker(svc, gw, WorkerConfig{Delay: time.Millisecond, CallTimeout: time.Second})
	svc = NewService(&memDebinRepo{store: store}, walletSvc, worker)
	worker.Start()
	t.Cleanup(worker.Stop)
	return svc, worker
}

func submit(t *testing.T, svc Service, walletID uuid.UUID, info string) *models.DebinRequest {
	t.Helper()
	req, err := svc.CreateDebinRequest(context.Background(), walletID, CreateDebinRequest{
		Amount:             40,
		Description:        "monthly debit",
		ExternalWalletInfo: info,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.DebinStatusPending, req.Status)
	return req
}

func TestWorker_AcceptedSettlesAndDebits(t *testing.T) {
	w := &models.Wallet{ID: uuid.New(), UserID: 1, Balance: 100}
	store := newMemStore(w)
	gw := gateway.NewSimulated(gateway.SimulatedConfig{Default: gateway.BehaviorAccept})
	svc, _ := startWorker(t, store, gw)

	req := submit(t, svc, w.ID, "bank-account-1")

	assert.Eventually(t, func() bool {
		return store.requestStatus(req.ID) == models.DebinStatusAccepted
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 60.0, store.balance(w.ID))
	assert.Equal(t, 1, store.transactionCount())
}

func TestWorker_RejectedLeavesBalance(t *testing.T) {
	w := &models.Wallet{ID: uuid.New(), UserID: 1, Balance: 100}
	store := newMemStore(w)
	gw := gateway.NewSimulated(gateway.SimulatedConfig{
		Behaviors: map[string]gateway.Behavior{"blocked-account": gateway.BehaviorReject},
	})
	svc, _ := startWorker(t, store, gw)

	req := submit(t, svc, w.ID, "blocked-account")

	assert.Eventually(t, func() bool {
		return store.requestStatus(req.ID) == models.DebinStatusRejected
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 100.0, store.balance(w.ID))
	assert.Equal(t, 0, store.transactionCount())
}

func TestWorker_UnavailableStaysPending(t *testing.T) {
	w := &models.Wallet{ID: uuid.New(), UserID: 1, Balance: 100}
	store := newMemStore(w)
	gw := gateway.NewSimulated(gateway.SimulatedConfig{Default: gateway.BehaviorUnavailable})
	svc, _ := startWorker(t, store, gw)

	req := submit(t, svc, w.ID, "bank-account-1")

	// Unknown outcome must not settle the request either way.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, models.DebinStatusPending, store.requestStatus(req.ID))
	assert.Equal(t, 100.0, store.balance(w.ID))
	assert.Equal(t, 0, store.transactionCount())
}

func TestWorker_UnderfundedAcceptanceRejects(t *testing.T) {
	w := &models.Wallet{ID: uuid.New(), UserID: 1, Balance: 10}
	store := newMemStore(w)
	gw := gateway.NewSimulated(gateway.SimulatedConfig{Default: gateway.BehaviorAccept})
	svc, _ := startWorker(t, store, gw)

	req := submit(t, svc, w.ID, "bank-account-1")

	assert.Eventually(t, func() bool {
		return store.requestStatus(req.ID) == models.DebinStatusRejected
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 10.0, store.balance(w.ID))
	assert.Equal(t, 0, store.transactionCount())
}

func TestWorker_ConcurrentConfirmationWins(t *testing.T) {
	w := &models.Wallet{ID: uuid.New(), UserID: 1, Balance: 100}
	store := newMemStore(w)
	gw := gateway.NewSimulated(gateway.SimulatedConfig{Default: gateway.BehaviorAccept})
	walletSvc := wallet.NewService(&memWalletRepo{store: store}, gw)
	svc := NewService(&memDebinRepo{store: store}, walletSvc, nil)
	worker := NewWorker(svc, gw, WorkerConfig{Delay: 200 * time.Millisecond, CallTimeout: time.Second})
	worker.Start()
	t.Cleanup(worker.Stop)

	req, err := svc.CreateDebinRequest(context.Background(), w.ID, CreateDebinRequest{
		Amount:             40,
		ExternalWalletInfo: "bank-account-1",
	})
	assert.NoError(t, err)
	worker.Enqueue(req.ID)

	// Settle through the endpoint path while the worker is still in its
	// delay window; the worker must observe the terminal state and back
	// off.
	_, err = svc.ConfirmDebinRequest(context.Background(), req.ID, models.DebinStatusRejected, "")
	assert.NoError(t, err)

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, models.DebinStatusRejected, store.requestStatus(req.ID))
	assert.Equal(t, 100.0, store.balance(w.ID))
	assert.Equal(t, 0, store.transactionCount())
}

func TestWorker_EnqueueFullQueue(t *testing.T) {
	w := &models.Wallet{ID: uuid.New(), UserID: 1, Balance: 100}
	store := newMemStore(w)
	gw := gateway.NewSimulated(gateway.SimulatedConfig{Default: gateway.BehaviorAccept})
	walletSvc := wallet.NewService(&memWalletRepo{store: store}, gw)
	svc := NewService(&memDebinRepo{store: store}, walletSvc, nil)

	// Not started, so nothing drains the queue.
	worker := NewWorker(svc, gw, WorkerConfig{QueueSize: 1})

	assert.True(t, worker.Enqueue(uuid.New()))
	assert.False(t, worker.Enqueue(uuid.New()))
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	store := newMemStore()
	gw := gateway.NewSimulated(gateway.SimulatedConfig{})
	walletSvc := wallet.NewService(&memWalletRepo{store: store}, gw)
	svc := NewService(&memDebinRepo{store: store}, walletSvc, nil)

	worker := NewWorker(svc, gw, WorkerConfig{})
	worker.Start()
	worker.Stop()
	worker.Stop()
}
