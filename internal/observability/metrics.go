package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeTurns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_relay_active_turns",
		Help: "Number of conversation turns currently in flight",
	})

	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_relay_turns_total",
		Help: "Total number of conversation turns processed",
	}, []string{"kind", "status"}) // kind: "voice" or "text"

	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voice_relay_stage_latency_seconds",
		Help:    "Pipeline stage latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
	}, []string{"stage"}) // stage: asr, llm, tts

	stageRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_relay_stage_requests_total",
		Help: "Total pipeline stage executions",
	}, []string{"stage", "status"})

	synthesizedChunks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_relay_tts_chunks_total",
		Help: "Total synthesized audio chunks",
	})
)

// TurnStarted marks a turn as in flight.
func TurnStarted() {
	activeTurns.Inc()
}

// TurnFinished marks a turn as no longer in flight.
func TurnFinished() {
	activeTurns.Dec()
}

// RecordTurn counts a completed HTTP turn by kind ("voice"/"text") and
// outcome.
func RecordTurn(kind string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	turnsTotal.WithLabelValues(kind, status).Inc()
}

// RecordStage observes one pipeline stage execution.
func RecordStage(stage string, elapsed time.Duration, success bool) {
	stageLatency.WithLabelValues(stage).Observe(elapsed.Seconds())
	status := "success"
	if !success {
		status = "error"
	}
	stageRequests.WithLabelValues(stage, status).Inc()
}

// AddSynthesizedChunks counts audio chunks produced by synthesis.
func AddSynthesizedChunks(n int) {
	synthesizedChunks.Add(float64(n))
}
