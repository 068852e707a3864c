package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOrderTransition(t *testing.T) {
	before := testutil.ToFloat64(orderTransitions.WithLabelValues("Shipped", "rejected"))
	RecordOrderTransition("Shipped", errors.New("nope"))
	after := testutil.ToFloat64(orderTransitions.WithLabelValues("Shipped", "rejected"))
	assert.Equal(t, before+1, after)
}

func TestRecordOrderTransition_UnknownStatusSharesLabel(t *testing.T) {
	before := testutil.CollectAndCount(orderTransitions)
	unknownBefore := testutil.ToFloat64(orderTransitions.WithLabelValues("unknown", "rejected"))

	for i := 0; i < 100; i++ {
		RecordOrderTransition(fmt.Sprintf("junk-%d", i), errors.New("bad status"))
	}

	assert.LessOrEqual(t, testutil.CollectAndCount(orderTransitions), before+1)
	assert.Equal(t, unknownBefore+100, testutil.ToFloat64(orderTransitions.WithLabelValues("unknown", "rejected")))
}

func TestObserveRequestAndHandler(t *testing.T) {
	StartRequest()
	ObserveRequest(http.MethodGet, "/v1/listings/:id", http.StatusOK, 12*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `roostermarket_http_requests_total{method="GET",path="/v1/listings/:id",status="200"}`)
}
