package metrics

import "github.com/prometheus/client_golang/prometheus"

// QRMetrics tracks QR image generation outcomes. Generation failures are
// non-fatal for product creation, so the counter is the only signal.
type QRMetrics struct {
	generated *prometheus.CounterVec
}

// NewQRMetrics registers the QR metrics on the provided registerer.
func NewQRMetrics(reg prometheus.Registerer) *QRMetrics {
	if reg == nil {
		return &QRMetrics{}
	}
	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_generation_total",
		Help: "QR image generation attempts, labelled by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(generated)
	return &QRMetrics{generated: generated}
}

// IncSuccess records a successful QR render.
func (q *QRMetrics) IncSuccess() {
	if q == nil || q.generated == nil {
		return
	}
	q.generated.WithLabelValues("success").Inc()
}

// IncFailure records a failed QR render.
func (q *QRMetrics) IncFailure() {
	if q == nil || q.generated == nil {
		return
	}
	q.generated.WithLabelValues("failure").Inc()
}
