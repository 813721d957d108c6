// internal/domain/lead/channel.go
package lead

import "time"

// ChannelPlan is the normalized form of a creation request's channel fields.
// A flat request carries nullable channel-specific fields; normalization turns
// it into exactly one of these variants so downstream code never sees an
// illegal combination (an exclusive lead without a contractor, a release
// window on an open-market lead, and so on).
type ChannelPlan interface {
	Channel() RoutingChannel
}

type OpenMarketPlan struct{}

func (OpenMarketPlan) Channel() RoutingChannel { return ChannelOpenMarket }

type InternalNetworkPlan struct {
	// ReleaseAt is zero when no staged release was requested; read paths
	// then treat the lead as released from creation.
	ReleaseAt time.Time
}

func (InternalNetworkPlan) Channel() RoutingChannel { return ChannelInternalNetwork }

type ExclusivePlan struct {
	ContractorID int64
	Free         bool
}

func (ExclusivePlan) Channel() RoutingChannel { return ChannelExclusive }
