package chain

// DO NOT EDIT!
// This code is generated with http://github.com/hexdigest/gowrap tool
// using ../../.prom-gowrap.tmpl template

//go:generate gowrap gen -p github.com/vendwars/vote-ledger/clients/chain -i Client -t ../../.prom-gowrap.tmpl -o instrumented_client.go

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

// ClientWithPrometheus implements Client interface with all methods wrapped
// with Prometheus metrics
type ClientWithPrometheus struct {
	base         Client
	instanceName string
}

var clientDurationSummaryVec = promauto.NewSummaryVec(
	prometheus.SummaryOpts{
		Name:       "chain_client_duration_seconds",
		Help:       "client runtime duration and result",
		MaxAge:     time.Minute,
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	},
	[]string{"instance_name", "method", "result"})

// NewClientWithPrometheus returns an instance of the Client decorated with prometheus summary metric
func NewClientWithPrometheus(base Client, instanceName string) ClientWithPrometheus {
	return ClientWithPrometheus{
		base:         base,
		instanceName: instanceName,
	}
}

// BalanceOf implements Client
func (_d ClientWithPrometheus) BalanceOf(ctx context.Context, recipient string) (d1 decimal.Decimal, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "BalanceOf", result).Observe(time.Since(_since).Seconds())
	}()
	return _d.base.BalanceOf(ctx, recipient)
}

// Transfer implements Client
func (_d ClientWithPrometheus) Transfer(ctx context.Context, recipient string, amount decimal.Decimal, reference uuid.UUID) (tp1 *TransferResponse, err error) {
	_since := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}

		clientDurationSummaryVec.WithLabelValues(_d.instanceName, "Transfer", result).Observe(time.Since(_since).Seconds())
	}()
	return _d.base.Transfer(ctx, recipient, amount, reference)
}
