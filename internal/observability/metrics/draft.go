package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	SubmissionValidationFailed   = "validation_failed"
	SubmissionPreconditionFailed = "precondition_failed"
	SubmissionTransportFailed    = "transport_failed"
	SubmissionSucceededTerminal  = "succeeded_terminal"
	SubmissionSucceededReset     = "succeeded_reset"
)

// SubmissionMetrics counts draft submission results.
type SubmissionMetrics struct {
	submissions *prometheus.CounterVec
	uploads     *prometheus.CounterVec
}

func NewSubmissionMetrics(reg prometheus.Registerer) (*SubmissionMetrics, error) {
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mystore",
		Name:      "draft_submissions_total",
		Help:      "Product draft submissions by result.",
	}, []string{"result"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mystore",
		Name:      "draft_image_uploads_total",
		Help:      "Draft image uploads by result.",
	}, []string{"result"})
	if err := register(reg, submissions); err != nil {
		return nil, err
	}
	if err := register(reg, uploads); err != nil {
		return nil, err
	}
	return &SubmissionMetrics{submissions: submissions, uploads: uploads}, nil
}

func (m *SubmissionMetrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

func (m *SubmissionMetrics) ObserveUpload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.uploads.WithLabelValues(result).Inc()
}
