package order

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces order and tracking identifiers. Uniqueness is checked
// by the lifecycle, so generators only need to be random enough.
type IDGenerator interface {
	OrderID(now time.Time) string
	TrackingNumber() string
}

// UUIDGenerator derives identifiers from random UUIDs.
type UUIDGenerator struct{}

// OrderID returns an identifier like ORD-20240301-9F1C2A7B.
func (UUIDGenerator) OrderID(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// TrackingNumber returns a 12-digit shipment number.
func (UUIDGenerator) TrackingNumber() string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) % 1_000_000_000_000
	return fmt.Sprintf("%012d", n)
}

// EstimateDelivery formats the promised delivery date. Rocket orders arrive
// the next morning, standard orders three days out.
func EstimateDelivery(createdAt time.Time, rocket bool) string {
	if rocket {
		return createdAt.AddDate(0, 0, 1).Format("Mon, Jan 2") + " by 7:00 AM"
	}
	return createdAt.AddDate(0, 0, 3).Format("Mon, Jan 2")
}
