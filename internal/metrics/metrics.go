package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	RowsCommitted prometheus.Counter
	RowsFailed    prometheus.Counter
	RowsSkipped   prometheus.Counter

	Previews     *prometheus.CounterVec
	Commits      *prometheus.CounterVec
	CommitSecs   prometheus.Histogram
	ReportsSent  *prometheus.CounterVec
	FilesCleaned prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	committed := prometheus.NewCounter(prometheus.CounterOpts{Name: "po_import_rows_committed_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "po_import_rows_failed_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "po_import_rows_skipped_total"})
	previews := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "po_import_previews_total"}, []string{"result"})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "po_import_commits_total"}, []string{"status"})
	commitSecs := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "po_import_commit_seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
	reports := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "po_import_reports_total"}, []string{"result"})
	cleaned := prometheus.NewCounter(prometheus.CounterOpts{Name: "po_upload_files_cleaned_total"})

	r.MustRegister(committed, failed, skipped, previews, commits, commitSecs, reports, cleaned)
	return &Registry{
		reg:           r,
		RowsCommitted: committed,
		RowsFailed:    failed,
		RowsSkipped:   skipped,
		Previews:      previews,
		Commits:       commits,
		CommitSecs:    commitSecs,
		ReportsSent:   reports,
		FilesCleaned:  cleaned,
	}
}

// RowCommitted, RowFailed and RowSkipped implement services.RowRecorder.
func (r *Registry) RowCommitted() { r.RowsCommitted.Inc() }
func (r *Registry) RowFailed()    { r.RowsFailed.Inc() }
func (r *Registry) RowSkipped()   { r.RowsSkipped.Inc() }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ReportSent counts failure report deliveries.
func (r *Registry) ReportSent(ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	r.ReportsSent.WithLabelValues(result).Inc()
}

func (r *Registry) PreviewObserved(result string) { r.Previews.WithLabelValues(result).Inc() }

func (r *Registry) CommitObserved(status string, elapsed time.Duration) {
	r.Commits.WithLabelValues(status).Inc()
	r.CommitSecs.Observe(elapsed.Seconds())
}

func (r *Registry) FilesRemoved(n int) { r.FilesCleaned.Add(float64(n)) }
