package rajaongkir

// Typed views of the RajaOngkir envelope for callers that prefer structs over
// the generic tree in Response.Data. Use them with Response.Decode:
//
//	var env rajaongkir.Envelope[[]rajaongkir.Province]
//	if err := resp.Decode(&env); err != nil { ... }
//
// Identifiers are strings because the upstream sends them quoted.

// Envelope is the upstream wrapper around every reply.
type Envelope[T any] struct {
	RajaOngkir Body[T] `json:"rajaongkir"`
}

// Body holds the envelope contents. List endpoints fill Results, single
// lookups and waybill fill Result.
type Body[T any] struct {
	Query   any    `json:"query,omitempty"`
	Status  Status `json:"status"`
	Results T      `json:"results"`
	Result  T      `json:"result"`
}

// Status is the upstream status block.
type Status struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// Province is one entry of the province lookup.
type Province struct {
	ProvinceID string `json:"province_id"`
	Province   string `json:"province"`
}

// City is one entry of the city lookup.
type City struct {
	CityID     string `json:"city_id"`
	ProvinceID string `json:"province_id"`
	Province   string `json:"province"`
	Type       string `json:"type"`
	CityName   string `json:"city_name"`
	PostalCode string `json:"postal_code"`
}

// Subdistrict is one entry of the subdistrict lookup.
type Subdistrict struct {
	SubdistrictID   string `json:"subdistrict_id"`
	ProvinceID      string `json:"province_id"`
	Province        string `json:"province"`
	CityID          string `json:"city_id"`
	City            string `json:"city"`
	Type            string `json:"type"`
	SubdistrictName string `json:"subdistrict_name"`
}

// CostResult groups the services offered by one courier.
type CostResult struct {
	Code  string        `json:"code"`
	Name  string        `json:"name"`
	Costs []CostService `json:"costs"`
}

// CostService is one service of a courier.
type CostService struct {
	Service     string       `json:"service"`
	Description string       `json:"description"`
	Cost        []CostDetail `json:"cost"`
}

// CostDetail is a price in rupiah with its estimated delivery time.
type CostDetail struct {
	Value int64  `json:"value"`
	ETD   string `json:"etd"`
	Note  string `json:"note"`
}

// InternationalLocation is an entry of the international origin or
// destination lookups.
type InternationalLocation struct {
	CityID      string `json:"city_id,omitempty"`
	CityName    string `json:"city_name,omitempty"`
	ProvinceID  string `json:"province_id,omitempty"`
	Province    string `json:"province,omitempty"`
	CountryID   string `json:"country_id,omitempty"`
	CountryName string `json:"country_name,omitempty"`
}

// InternationalCostResult groups international services of one courier.
type InternationalCostResult struct {
	Code  string                     `json:"code"`
	Name  string                     `json:"name"`
	Costs []InternationalCostService `json:"costs"`
}

// InternationalCostService is one international service with its price.
type InternationalCostService struct {
	Service     string  `json:"service"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
	Cost        float64 `json:"cost"`
	ETD         string  `json:"etd"`
}

// WaybillResult is the tracking payload.
type WaybillResult struct {
	Delivered      bool                  `json:"delivered"`
	Summary        WaybillSummary        `json:"summary"`
	DeliveryStatus WaybillDeliveryStatus `json:"delivery_status"`
	Manifest       []WaybillManifest     `json:"manifest"`
}

// WaybillSummary describes the shipment.
type WaybillSummary struct {
	CourierCode   string `json:"courier_code"`
	CourierName   string `json:"courier_name"`
	WaybillNumber string `json:"waybill_number"`
	ServiceCode   string `json:"service_code"`
	WaybillDate   string `json:"waybill_date"`
	ShipperName   string `json:"shipper_name"`
	ReceiverName  string `json:"receiver_name"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Status        string `json:"status"`
}

// WaybillDeliveryStatus is the proof of delivery, when delivered.
type WaybillDeliveryStatus struct {
	Status      string `json:"status"`
	PODReceiver string `json:"pod_receiver"`
	PODDate     string `json:"pod_date"`
	PODTime     string `json:"pod_time"`
}

// WaybillManifest is one tracking event.
type WaybillManifest struct {
	Code        string `json:"manifest_code"`
	Description string `json:"manifest_description"`
	Date        string `json:"manifest_date"`
	Time        string `json:"manifest_time"`
	CityName    string `json:"city_name"`
}
