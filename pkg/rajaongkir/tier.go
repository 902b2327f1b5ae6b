package rajaongkir

import "fmt"

// AccountTier is the RajaOngkir subscription level. It selects the API host.
type AccountTier string

const (
	TierStarter AccountTier = "starter"
	TierBasic   AccountTier = "basic"
	TierPro     AccountTier = "pro"
)

const (
	sharedHost = "https://api.rajaongkir.com/"
	proBaseURL = "https://pro.rajaongkir.com/api/"
)

// Tiers returns every valid account tier.
func Tiers() []AccountTier {
	return []AccountTier{TierStarter, TierBasic, TierPro}
}

// ParseAccountTier validates s against the known tiers. An empty string
// selects the starter tier.
func ParseAccountTier(s string) (AccountTier, error) {
	if s == "" {
		return TierStarter, nil
	}
	tier := AccountTier(s)
	if !tier.Valid() {
		return "", &ConfigurationError{
			Field:   "account tier",
			Message: fmt.Sprintf("unknown account tier %q", s),
			Cause:   ErrUnknownAccountTier,
		}
	}
	return tier, nil
}

// Valid reports whether t is one of the known tiers.
func (t AccountTier) Valid() bool {
	switch t {
	case TierStarter, TierBasic, TierPro:
		return true
	default:
		return false
	}
}

// BaseURL returns the API root for the tier. Pro accounts use a dedicated
// host; starter and basic share one host with the tier as the first path
// segment. Both are HTTPS, unlike the plain-HTTP roots RajaOngkir documents;
// set Config.BaseURL to reach a plain-HTTP endpoint or mirror.
func (t AccountTier) BaseURL() string {
	if t == TierPro {
		return proBaseURL
	}
	return sharedHost + string(t) + "/"
}

// String implements fmt.Stringer.
func (t AccountTier) String() string {
	return string(t)
}
