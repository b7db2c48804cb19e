/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
)

const Namespace = "bersim"

// Exporter publishes run progress as Prometheus metrics.
// Gauges of undefined metrics keep their previous value.
type Exporter struct {
	Registry *prometheus.Registry

	TrialsTotal   *prometheus.CounterVec
	WarningsTotal prometheus.Counter
	TrialDuration prometheus.Histogram
	CurrentTrial  prometheus.Gauge
	Counters      *prometheus.GaugeVec
	BERPre        prometheus.Gauge
	BERPost       prometheus.Gauge
	CER           prometheus.Gauge
	CodingGain    prometheus.Gauge
	SNR           prometheus.Gauge
}

var _ runner.Reporter = &Exporter{}

func NewExporter() *Exporter {
	e := &Exporter{
		Registry: prometheus.NewRegistry(),
		TrialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "trials_total",
				Help:      "Number of finished trials by outcome",
			},
			[]string{"outcome"},
		),
		WarningsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "warnings_total",
				Help:      "Number of protocol and snapshot warnings",
			},
		),
		TrialDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "trial_duration_seconds",
				Help:      "Time from trial start until the frame error threshold was reached",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
			},
		),
		CurrentTrial: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "current_trial",
				Help:      "Number of the last reported trial",
			},
		),
		Counters: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "counter",
				Help:      "Hardware statistics counters of the last trial",
			},
			[]string{"counter"},
		),
		BERPre:     newGauge("ber_pre", "Bit error rate before decoding"),
		BERPost:    newGauge("ber_post", "Bit error rate after decoding"),
		CER:        newGauge("cer", "Codeword error rate"),
		CodingGain: newGauge("coding_gain_db", "Coding gain in dB"),
		SNR:        newGauge("snr_db", "SNR of the noise block in dB"),
	}
	e.Registry.MustRegister(
		e.TrialsTotal,
		e.WarningsTotal,
		e.TrialDuration,
		e.CurrentTrial,
		e.Counters,
		e.BERPre,
		e.BERPost,
		e.CER,
		e.CodingGain,
		e.SNR,
	)
	return e
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	})
}

func setIfValid(g prometheus.Gauge, m stats.Metric) {
	if m.Valid {
		g.Set(m.Value)
	}
}

// Handler serves the registry in the text exposition format
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.Registry, promhttp.HandlerOpts{})
}

func (e *Exporter) BeginRun(info *runner.RunInfo) error {
	e.CurrentTrial.Set(0)
	return nil
}

func (e *Exporter) Trial(res *runner.TrialResult) error {
	e.TrialsTotal.WithLabelValues(string(res.Outcome)).Inc()
	e.WarningsTotal.Add(float64(len(res.Warnings)))
	e.CurrentTrial.Set(float64(res.Trial))
	for _, cnt := range regs.Counters() {
		e.Counters.WithLabelValues(cnt.String()).Set(float64(res.Snapshot.Counter(cnt)))
	}
	if res.Report == nil {
		return nil
	}
	e.TrialDuration.Observe(res.Finished.Sub(res.Started).Seconds())
	setIfValid(e.BERPre, res.Report.BERPre)
	setIfValid(e.BERPost, res.Report.BERPost)
	setIfValid(e.CER, res.Report.CER)
	setIfValid(e.CodingGain, res.Report.CodingGain)
	setIfValid(e.SNR, res.Report.SNR)
	return nil
}

func (e *Exporter) EndRun(sum *runner.Summary) error {
	return nil
}
