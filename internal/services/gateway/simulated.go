package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Behavior is the simulated provider's decision for one external
// counterparty identifier.
type Behavior int

const (
	BehaviorAccept Behavior = iota
	BehaviorReject
	BehaviorUnavailable
)

// SimulatedConfig drives the simulated provider. Behaviors maps an
// external wallet identifier to a fixed decision; identifiers not in
// the map get Default. Latency is applied to every call.
type SimulatedConfig struct {
	Behaviors map[string]Behavior
	Default   Behavior
	Latency   time.Duration
}

// Simulated is a stand-in bank used in development and tests. Decisions
// are injected through SimulatedConfig instead of hard-coded magic
// identifiers, so test doubles can vary behavior per counterparty.
type Simulated struct {
	cfg SimulatedConfig
}

func NewSimulated(cfg SimulatedConfig) *Simulated {
	return &Simulated{cfg: cfg}
}

func (s *Simulated) RequestTopUp(ctx context.Context, amount float64, externalWalletInfo string) (string, error) {
	return s.decide(ctx, "topup", amount, externalWalletInfo)
}

func (s *Simulated) RequestDebit(ctx context.Context, amount float64, externalWalletInfo string) (string, error) {
	return s.decide(ctx, "debin", amount, externalWalletInfo)
}

func (s *Simulated) decide(ctx context.Context, kind string, amount float64, externalWalletInfo string) (string, error) {
	if s.cfg.Latency > 0 {
		timer := time.NewTimer(s.cfg.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ErrUnavailable
		case <-timer.C:
		}
	}

	behavior := s.cfg.Default
	if b, ok := s.cfg.Behaviors[externalWalletInfo]; ok {
		behavior = b
	}

	switch behavior {
	case BehaviorReject:
		return "", ErrRejected
	case BehaviorUnavailable:
		return "", ErrUnavailable
	}

	ref := uuid.NewString()
	logrus.WithFields(logrus.Fields{
		"kind":               kind,
		"amount":             amount,
		"external_reference": ref,
		"counterparty":       externalWalletInfo,
	}).Info("simulated external payment accepted")
	return ref, nil
}
