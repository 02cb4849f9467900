package domain

import "fmt"

// carrierPrefixLen is the RN prefix length carriers are registered under.
const carrierPrefixLen = 4

// CarrierRegistry maps routing-number prefixes to carrier names for
// human-readable reporting.
type CarrierRegistry struct {
	byPrefix map[string]string
}

// NewCarrierRegistry builds a registry from a prefix -> carrier name mapping.
func NewCarrierRegistry(entries map[string]string) *CarrierRegistry {
	byPrefix := make(map[string]string, len(entries))
	for prefix, name := range entries {
		byPrefix[prefix] = name
	}
	return &CarrierRegistry{byPrefix: byPrefix}
}

// DefaultCarrierRegistry covers the carriers known to the audit team.
func DefaultCarrierRegistry() *CarrierRegistry {
	return NewCarrierRegistry(map[string]string{
		"1010": "Alpha_Telecom_Global",
		"1020": "Beta_Mobile_Networks",
		"2010": "Delta_MVNO_Services",
		"2020": "Epsilon_Fixed_Line",
		"3050": "Zeta_Cloud_Voice",
		"4090": "Omega_Infrastructure",
	})
}

// Match resolves a routing number to a carrier name by its prefix.
// Unknown or short routing numbers resolve to a visible placeholder rather
// than being dropped.
func (r *CarrierRegistry) Match(routingNumber string) string {
	if len(routingNumber) < carrierPrefixLen {
		return "unknown_provider"
	}
	prefix := routingNumber[:carrierPrefixLen]
	if name, ok := r.byPrefix[prefix]; ok {
		return name
	}
	return fmt.Sprintf("unregistered_prefix_%s", prefix)
}
