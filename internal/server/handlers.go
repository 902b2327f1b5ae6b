package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	gqlgen "github.com/99designs/gqlgen/graphql"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tournevent/ongkir/internal/telemetry"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleProvinces(w http.ResponseWriter, r *http.Request) {
	s.proxy(w, r, "province", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.Province(ctx, r.URL.Query().Get("id"))
	})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	s.proxy(w, r, "city", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.City(ctx, rajaongkir.CityRequest{
			ProvinceID: query.Get("province"),
			CityID:     query.Get("id"),
		})
	})
}

func (s *Server) handleSubdistricts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("city") == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "city is required")
		return
	}
	s.proxy(w, r, "subdistrict", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.Subdistrict(ctx, rajaongkir.SubdistrictRequest{
			CityID:        query.Get("city"),
			SubdistrictID: query.Get("id"),
		})
	})
}

func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	weight, ok := parseWeight(w, r)
	if !ok {
		return
	}
	s.proxy(w, r, "cost", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.Cost(ctx, rajaongkir.CostRequest{
			Origin:          r.FormValue("origin"),
			Destination:     r.FormValue("destination"),
			Weight:          weight,
			Courier:         r.FormValue("courier"),
			OriginType:      rajaongkir.LocationType(r.FormValue("originType")),
			DestinationType: rajaongkir.LocationType(r.FormValue("destinationType")),
		})
	})
}

func (s *Server) handleInternationalOrigins(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	s.proxy(w, r, "international_origin", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.InternationalOrigin(ctx, rajaongkir.InternationalOriginRequest{
			CityID:     query.Get("id"),
			ProvinceID: query.Get("province"),
		})
	})
}

func (s *Server) handleInternationalDestinations(w http.ResponseWriter, r *http.Request) {
	s.proxy(w, r, "international_destination", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.InternationalDestination(ctx, r.URL.Query().Get("id"))
	})
}

func (s *Server) handleInternationalCost(w http.ResponseWriter, r *http.Request) {
	weight, ok := parseWeight(w, r)
	if !ok {
		return
	}
	s.proxy(w, r, "international_cost", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.InternationalCost(ctx, rajaongkir.InternationalCostRequest{
			Origin:      r.FormValue("origin"),
			Destination: r.FormValue("destination"),
			Weight:      weight,
			Courier:     r.FormValue("courier"),
		})
	})
}

func (s *Server) handleWaybill(w http.ResponseWriter, r *http.Request) {
	s.proxy(w, r, "waybill", func(ctx context.Context) (*rajaongkir.Response, error) {
		return s.client.Waybill(ctx, rajaongkir.WaybillRequest{
			Waybill: r.FormValue("waybill"),
			Courier: r.FormValue("courier"),
		})
	})
}

// proxy runs one client call and relays the upstream body and status.
func (s *Server) proxy(w http.ResponseWriter, r *http.Request, operation string, call func(ctx context.Context) (*rajaongkir.Response, error)) {
	ctx := r.Context()
	start := time.Now()

	resp, err := call(ctx)
	s.metrics.ObserveCall(operation, start, resp, err)
	if err != nil {
		s.logger.Ctx(ctx).Error("RajaOngkir call failed",
			zap.String("operation", operation),
			zap.String("request_id", w.Header().Get(requestIDHeader)),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, errorCode(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Raw)
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeGraphQL(w, http.StatusMethodNotAllowed, &gqlgen.Response{
			Errors: gqlerror.List{gqlerror.Errorf("Method not allowed, use POST")},
		})
		return
	}

	var params gqlgen.RawParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeGraphQL(w, http.StatusBadRequest, &gqlgen.Response{
			Errors: gqlerror.List{gqlerror.Errorf("Invalid JSON: %s", err.Error())},
		})
		return
	}

	writeGraphQL(w, http.StatusOK, s.resolver.Execute(r.Context(), &params))
}

func writeGraphQL(w http.ResponseWriter, status int, resp *gqlgen.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(&gqlgen.Response{
			Errors: gqlerror.List{gqlerror.Errorf("encoding response: %s", err.Error())},
		})
		return
	}
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

func errorCode(err error) string {
	switch telemetry.ErrorType(err) {
	case "transport":
		return "UPSTREAM_UNAVAILABLE"
	case "response_format":
		return "UPSTREAM_BAD_RESPONSE"
	default:
		return "INTERNAL"
	}
}

// parseWeight reads the optional weight form value. It writes a 400 and
// returns false when the value is not an integer.
func parseWeight(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.FormValue("weight")
	if raw == "" {
		return 0, true
	}
	weight, err := strconv.Atoi(raw)
	if err != nil || weight < 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "weight must be a non-negative integer in grams")
		return 0, false
	}
	return weight, true
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID tags every request with an X-Request-ID and logs it.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Ctx(r.Context()).Info("HTTP request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
