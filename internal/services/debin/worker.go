package debin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"plata/internal/models"
	"plata/internal/services/gateway"
	"plata/internal/services/wallet"
)

const defaultQueueSize = 256

// WorkerConfig tunes the confirmation worker. Delay simulates the
// bank's response time before the gateway is consulted; CallTimeout
// bounds each gateway call.
type WorkerConfig struct {
	Delay       time.Duration
	CallTimeout time.Duration
	QueueSize   int
}

// Worker consumes pending debin requests and settles them with the
// external gateway. It is the explicit replacement for an implicit
// framework async hook: submission enqueues, this goroutine confirms.
type Worker struct {
	svc  Service
	gw   gateway.Gateway
	cfg  WorkerConfig
	jobs chan uuid.UUID
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewWorker(svc Service, gw gateway.Gateway, cfg WorkerConfig) *Worker {
	if svc == nil {
		panic("service is required")
	}
	if gw == nil {
		panic("gateway is required")
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Worker{
		svc:  svc,
		gw:   gw,
		cfg:  cfg,
		jobs: make(chan uuid.UUID, cfg.QueueSize),
		quit: make(chan struct{}),
	}
}

// Enqueue implements Enqueuer. It never blocks; a full queue reports
// false and the request stays PENDING.
func (w *Worker) Enqueue(requestID uuid.UUID) bool {
	select {
	case w.jobs <- requestID:
		return true
	default:
		return false
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
	logrus.Info("debin confirmation worker started")
}

// Stop shuts the worker down after the in-flight job finishes. Queued
// jobs are abandoned; their requests stay PENDING in the store.
func (w *Worker) Stop() {
	w.once.Do(func() { close(w.quit) })
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.quit:
			return
		case id := <-w.jobs:
			w.process(id)
		}
	}
}

func (w *Worker) process(requestID uuid.UUID) {
	log := logrus.WithField("debin_id", requestID)

	if w.cfg.Delay > 0 {
		timer := time.NewTimer(w.cfg.Delay)
		select {
		case <-w.quit:
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.CallTimeout)
	defer cancel()

	request, err := w.svc.GetRequest(ctx, requestID)
	if err != nil {
		log.WithError(err).Error("failed to load debin request")
		return
	}
	if request.Status != models.DebinStatusPending {
		return
	}

	status := models.DebinStatusAccepted
	ref, err := w.gw.RequestDebit(ctx, request.Amount, request.ExternalWalletInfo)
	if err != nil {
		if errors.Is(err, gateway.ErrUnavailable) {
			// Unknown outcome; leave the request PENDING so a later
			// confirmation (manual or re-enqueued) can settle it.
			log.WithError(err).Warn("gateway unreachable, debin request left pending")
			return
		}
		log.WithError(err).Info("gateway rejected debin request")
		status = models.DebinStatusRejected
		ref = ""
	}

	if _, err := w.svc.ConfirmDebinRequest(ctx, requestID, status, ref); err != nil {
		if status == models.DebinStatusAccepted && errors.Is(err, wallet.ErrInsufficientFunds) {
			// The bank paid out but the wallet cannot cover the debit;
			// settle as rejected rather than leaving money in limbo.
			if _, err := w.svc.ConfirmDebinRequest(ctx, requestID, models.DebinStatusRejected, ""); err != nil {
				log.WithError(err).Error("failed to reject underfunded debin request")
			}
			return
		}
		if errors.Is(err, ErrNotPending) {
			// Settled concurrently through the confirmation endpoint.
			return
		}
		log.WithError(err).Error("failed to confirm debin request")
	}
}
