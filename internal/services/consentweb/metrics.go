package consentweb

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/louisbranch/docsconsent/internal/consent"
)

// Metrics counts banner impressions and recorded decisions.
type Metrics struct {
	Decisions   *prometheus.CounterVec
	Impressions *prometheus.CounterVec
	Suppressed  prometheus.Counter
}

// NewMetrics registers consent collectors with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docsconsent_decisions_total",
			Help: "Consent decisions recorded, by decision",
		}, []string{"decision"}),
		Impressions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docsconsent_banner_impressions_total",
			Help: "Pages served with the consent banner, by requested locale",
		}, []string{"locale"}),
		Suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docsconsent_banner_suppressed_total",
			Help: "Banner renders suppressed because no content matched",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Decisions, m.Impressions, m.Suppressed} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// ObserveImpression counts a rendered banner.
func (m *Metrics) ObserveImpression(locale string) {
	if m == nil {
		return
	}
	m.Impressions.WithLabelValues(locale).Inc()
}

// ObserveSuppressed counts a banner that could not be rendered.
func (m *Metrics) ObserveSuppressed() {
	if m == nil {
		return
	}
	m.Suppressed.Inc()
}

// Callbacks returns consent callbacks that count decisions.
func (m *Metrics) Callbacks() consent.Callbacks {
	return consent.CallbackFuncs{
		Accept: func(context.Context) { m.observeDecision(consent.DecisionAccepted) },
		Deny:   func(context.Context) { m.observeDecision(consent.DecisionDenied) },
	}
}

func (m *Metrics) observeDecision(d consent.Decision) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(d.String()).Inc()
}
