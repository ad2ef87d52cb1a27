package order

import (
	"time"

	"gofresh/internal/model"
)

// DelayProfile is how long after creation each automatic transition fires.
// Delays must increase in declaration order.
type DelayProfile struct {
	Processing     time.Duration
	Shipped        time.Duration
	OutForDelivery time.Duration
	Delivered      time.Duration
}

type step struct {
	status model.OrderStatus
	delay  time.Duration
}

func (p DelayProfile) steps() []step {
	return []step{
		{status: model.OrderStatusProcessing, delay: p.Processing},
		{status: model.OrderStatusShipped, delay: p.Shipped},
		{status: model.OrderStatusOutForDelivery, delay: p.OutForDelivery},
		{status: model.OrderStatusDelivered, delay: p.Delivered},
	}
}

func (p DelayProfile) scaled(factor float64) DelayProfile {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * factor)
	}
	return DelayProfile{
		Processing:     scale(p.Processing),
		Shipped:        scale(p.Shipped),
		OutForDelivery: scale(p.OutForDelivery),
		Delivered:      scale(p.Delivered),
	}
}

// Profiles selects the delay profile by delivery tier.
type Profiles struct {
	Expedited DelayProfile
	Standard  DelayProfile
}

// DefaultProfiles lets a demo session watch an order complete within minutes.
func DefaultProfiles() Profiles {
	return Profiles{
		Expedited: DelayProfile{
			Processing:     10 * time.Second,
			Shipped:        30 * time.Second,
			OutForDelivery: 60 * time.Second,
			Delivered:      120 * time.Second,
		},
		Standard: DelayProfile{
			Processing:     30 * time.Second,
			Shipped:        2 * time.Minute,
			OutForDelivery: 5 * time.Minute,
			Delivered:      10 * time.Minute,
		},
	}
}

// Scaled multiplies every delay by factor.
func (p Profiles) Scaled(factor float64) Profiles {
	return Profiles{
		Expedited: p.Expedited.scaled(factor),
		Standard:  p.Standard.scaled(factor),
	}
}

// For returns the profile for an order.
func (p Profiles) For(rocket bool) DelayProfile {
	if rocket {
		return p.Expedited
	}
	return p.Standard
}
