package telemetry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/ongkir/internal/telemetry"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
	"go.uber.org/zap/zapcore"
)

func TestMetrics_RecordRequest(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())

	metrics.RecordRequest("cost", "200", 0.12)
	metrics.RecordRequest("cost", "200", 0.08)
	metrics.RecordRequest("city", "400", 0.05)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("cost", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("city", "400")))
}

func TestMetrics_RecordError(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())

	metrics.RecordError("waybill", "transport")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamErrors.WithLabelValues("waybill", "transport")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.NewMetrics(prometheus.NewRegistry())
		telemetry.NewMetrics(prometheus.NewRegistry())
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, telemetry.ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, telemetry.ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, telemetry.ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, telemetry.ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	logger, err := telemetry.NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestMetrics_ObserveCall(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	start := time.Now()

	metrics.ObserveCall("province", start, &rajaongkir.Response{StatusCode: 200}, nil)
	metrics.ObserveCall("province", start, nil, &rajaongkir.TransportError{Operation: "province", Cause: errors.New("refused")})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("province", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("province", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamErrors.WithLabelValues("province", "transport")))
}

func TestMetrics_ObserveCallNil(t *testing.T) {
	var metrics *telemetry.Metrics
	assert.NotPanics(t, func() {
		metrics.ObserveCall("city", time.Now(), &rajaongkir.Response{StatusCode: 200}, nil)
	})
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "transport", telemetry.ErrorType(&rajaongkir.TransportError{Cause: errors.New("x")}))
	assert.Equal(t, "response_format", telemetry.ErrorType(&rajaongkir.ResponseFormatError{Cause: errors.New("x")}))
	assert.Equal(t, "unknown", telemetry.ErrorType(errors.New("x")))
}
