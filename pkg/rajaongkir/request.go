package rajaongkir

import (
	"net/http"
	"net/url"
	"strconv"
)

// DefaultWeight is the shipment weight in grams used when a cost request
// leaves Weight at zero.
const DefaultWeight = 1000

// LocationType tells the cost endpoints whether an origin or destination id
// refers to a city or a subdistrict.
type LocationType string

const (
	LocationCity        LocationType = "city"
	LocationSubdistrict LocationType = "subdistrict"
)

// Valid reports whether the upstream accepts t.
func (t LocationType) Valid() bool {
	return t == LocationCity || t == LocationSubdistrict
}

// CityRequest filters the city lookup. Empty fields are not sent.
type CityRequest struct {
	ProvinceID string
	CityID     string
}

// SubdistrictRequest looks up subdistricts of a city (pro accounts).
type SubdistrictRequest struct {
	CityID        string // required
	SubdistrictID string
}

// CostRequest asks for domestic shipping costs.
type CostRequest struct {
	Origin      string // required, city or subdistrict id
	Destination string // required, city or subdistrict id
	Weight      int    // grams; zero means DefaultWeight
	Courier     string // courier code, several joined with ':'

	// Only LocationCity and LocationSubdistrict are sent; anything else is
	// dropped.
	OriginType      LocationType
	DestinationType LocationType
}

// InternationalOriginRequest filters the international origin lookup.
type InternationalOriginRequest struct {
	CityID     string
	ProvinceID string
}

// InternationalCostRequest asks for international shipping costs.
type InternationalCostRequest struct {
	Origin      string // required, origin city id
	Destination string // required, destination country id
	Weight      int    // grams; zero means DefaultWeight
	Courier     string
}

// WaybillRequest tracks a shipment.
type WaybillRequest struct {
	Waybill string // required
	Courier string // required
}

// apiRequest is the description of one outgoing call. A fresh value is built
// for every operation so parameters never leak between calls.
type apiRequest struct {
	operation string
	method    string
	path      string
	params    url.Values
}

func newGet(operation, path string) *apiRequest {
	return &apiRequest{operation: operation, method: http.MethodGet, path: path, params: url.Values{}}
}

func newPost(operation, path string) *apiRequest {
	return &apiRequest{operation: operation, method: http.MethodPost, path: path, params: url.Values{}}
}

// set always adds the parameter.
func (r *apiRequest) set(name, value string) *apiRequest {
	r.params.Set(name, value)
	return r
}

// optional adds the parameter only when value is non-empty.
func (r *apiRequest) optional(name, value string) *apiRequest {
	if value != "" {
		r.params.Set(name, value)
	}
	return r
}

func (r *apiRequest) locationType(name string, t LocationType) *apiRequest {
	if t.Valid() {
		r.params.Set(name, string(t))
	}
	return r
}

func weightOrDefault(w int) string {
	if w == 0 {
		w = DefaultWeight
	}
	return strconv.Itoa(w)
}

func provinceRequest(provinceID string) *apiRequest {
	return newGet("province", "province").optional("province", provinceID)
}

func cityRequest(req CityRequest) *apiRequest {
	return newGet("city", "city").
		optional("province", req.ProvinceID).
		optional("id", req.CityID)
}

func subdistrictRequest(req SubdistrictRequest) *apiRequest {
	return newGet("subdistrict", "subdistrict").
		set("city", req.CityID).
		optional("id", req.SubdistrictID)
}

func costRequest(req CostRequest) *apiRequest {
	return newPost("cost", "cost").
		set("origin", req.Origin).
		set("destination", req.Destination).
		set("weight", weightOrDefault(req.Weight)).
		optional("courier", req.Courier).
		locationType("originType", req.OriginType).
		locationType("destinationType", req.DestinationType)
}

func internationalOriginRequest(req InternationalOriginRequest) *apiRequest {
	return newGet("international_origin", "v2/internationalOrigin").
		optional("id", req.CityID).
		optional("province", req.ProvinceID)
}

func internationalDestinationRequest(countryID string) *apiRequest {
	return newGet("international_destination", "v2/internationalDestination").
		optional("id", countryID)
}

func internationalCostRequest(req InternationalCostRequest) *apiRequest {
	return newPost("international_cost", "v2/internationalCost").
		set("origin", req.Origin).
		set("destination", req.Destination).
		set("weight", weightOrDefault(req.Weight)).
		optional("courier", req.Courier)
}

func waybillRequest(req WaybillRequest) *apiRequest {
	return newPost("waybill", "waybill").
		set("waybill", req.Waybill).
		set("courier", req.Courier)
}
