package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/avicennajr/go-fdisms/internal/logger"
	"github.com/avicennajr/go-fdisms/internal/sinks"
	"github.com/avicennajr/go-fdisms/pkg/fdisms"
)

// api is the slice of the messaging client the watch loop polls.
type api interface {
	BalanceNow(ctx context.Context) (*fdisms.Balance, error)
	Stats(ctx context.Context) (*fdisms.TrafficStats, error)
}

// Dispatcher forwards alert events to the configured sinks.
type Dispatcher interface {
	Deliver(ctx context.Context, evt sinks.Event) (int, error)
	Size() int
}

// Service polls the account balance on a fixed cadence and raises a
// low-balance alert through the dispatcher when it drops under the
// threshold. A threshold of zero disables alerting; the loop still
// logs balance and traffic totals each pass.
type Service struct {
	client    api
	out       Dispatcher
	threshold float64
	interval  time.Duration
	log       logger.Logger

	// alerted suppresses repeat alerts until the balance recovers
	// above the threshold.
	alerted bool
}

func NewService(client api, out Dispatcher, threshold float64, interval time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		client:    client,
		out:       out,
		threshold: threshold,
		interval:  interval,
		log:       log,
	}
}

// Run polls once immediately, then on every tick until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.log.InfoObj("watch started", "watch", map[string]interface{}{
		"interval":  s.interval.String(),
		"threshold": s.threshold,
	})

	if err := s.runOnce(ctx); err != nil {
		s.log.ErrorObj("watch pass failed", "error", err.Error())
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("watch stopped", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := s.runOnce(ctx); err != nil {
				s.log.ErrorObj("watch pass failed", "error", err.Error())
			}
		}
	}
}

func (s *Service) runOnce(ctx context.Context) error {
	bal, err := s.client.BalanceNow(ctx)
	if err != nil {
		return fmt.Errorf("check balance: %w", err)
	}

	s.log.InfoObj("balance checked", "balance", map[string]interface{}{
		"balance":  bal.Balance,
		"currency": bal.Currency,
	})

	s.evaluate(ctx, bal)

	stats, err := s.client.Stats(ctx)
	if err != nil {
		return fmt.Errorf("check traffic: %w", err)
	}

	s.log.InfoObj("traffic checked", "traffic", map[string]interface{}{
		"mt_sent":      stats.MT.Sent,
		"mt_delivered": stats.MT.Delivered,
		"mo_sent":      stats.MO.Sent,
	})
	return nil
}

// evaluate fires a single alert per excursion below the threshold and
// re-arms once the balance climbs back above it. A delivery that
// reaches no sink at all stays armed so the next pass retries.
func (s *Service) evaluate(ctx context.Context, bal *fdisms.Balance) {
	if s.threshold <= 0 {
		return
	}

	if bal.Balance >= s.threshold {
		if s.alerted {
			s.alerted = false
			s.log.InfoObj("balance recovered", "balance", bal.Balance)
		}
		return
	}

	if s.alerted {
		return
	}

	evt := sinks.NewBalanceAlertEvent(sinks.BalanceAlert{
		Balance:   bal.Balance,
		Currency:  bal.Currency,
		Threshold: s.threshold,
	})

	delivered, err := s.out.Deliver(ctx, evt)
	if err != nil {
		s.log.ErrorObj("alert delivery incomplete", "error", err.Error())
	}
	if delivered == 0 && s.out.Size() > 0 {
		return
	}

	s.alerted = true
	s.log.WarnObj("low balance alert raised", "alert", map[string]interface{}{
		"balance":   bal.Balance,
		"threshold": s.threshold,
		"delivered": delivered,
	})
}
