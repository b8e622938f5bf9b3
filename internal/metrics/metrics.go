package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmarket_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripmarket_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmarket_bookings_total",
			Help: "Total number of bookings created",
		},
		[]string{"channel"},
	)

	ClaimPaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmarket_claim_payments_total",
			Help: "Total number of claim-payment postings against bookings",
		},
		[]string{"result"},
	)

	ClaimPaymentAmountCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripmarket_claim_payment_amount_cents_total",
			Help: "Cumulative posted claim amount in settlement minor units",
		},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmarket_wallet_transactions_total",
			Help: "Total number of wallet ledger entries written",
		},
		[]string{"type"},
	)

	ClaimReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmarket_claim_reviews_total",
			Help: "Total number of reviewable-claim status transitions",
		},
		[]string{"status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripmarket_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripmarket_email_queue_length",
			Help: "Current length of the email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(channel string) {
	BookingsTotal.WithLabelValues(channel).Inc()
}

func RecordClaimPayment(result string, claimedCents int64) {
	ClaimPaymentsTotal.WithLabelValues(result).Inc()
	if result == "posted" && claimedCents > 0 {
		ClaimPaymentAmountCents.Add(float64(claimedCents))
	}
}

func RecordWalletTransaction(txType string) {
	WalletTransactionsTotal.WithLabelValues(txType).Inc()
}

func RecordClaimReview(status string) {
	ClaimReviewsTotal.WithLabelValues(status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
