package valueobjects

// Feature keys understood by the entitlement resolver.
const (
	FeaturePremiumAccess  = "premium_access"
	FeatureRealTimeData   = "real_time_data"
	FeatureBiddingPackage = "bidding_package"
)

// Capabilities is a plan's feature-key to granted mapping. A key that is
// absent says nothing about the feature, which is different from false.
type Capabilities map[string]bool

// NewCapabilities copies the given map so callers cannot mutate a plan.
func NewCapabilities(features map[string]bool) Capabilities {
	c := make(Capabilities, len(features))
	for k, v := range features {
		c[k] = v
	}
	return c
}

// Lookup returns the flag for key and whether the plan mentions it at all.
func (c Capabilities) Lookup(key string) (granted bool, present bool) {
	granted, present = c[key]
	return granted, present
}

// Grants is true only for an explicit true entry.
func (c Capabilities) Grants(key string) bool {
	granted, present := c.Lookup(key)
	return present && granted
}
