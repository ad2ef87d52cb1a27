package model

import "time"

// OrderStatus is a step of the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusProcessing:     2,
	OrderStatusShipped:        3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
	OrderStatusCancelled:      6,
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// IsTerminal reports whether no transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Rank orders the fulfilment statuses; unknown statuses rank -1.
func (s OrderStatus) Rank() int {
	if r, ok := orderStatusRank[s]; ok {
		return r
	}
	return -1
}

// PaymentMethod is the payment option chosen at checkout.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodKakaoPay     PaymentMethod = "kakao_pay"
	PaymentMethodNaverPay     PaymentMethod = "naver_pay"
	PaymentMethodTossPay      PaymentMethod = "toss_pay"
	PaymentMethodPhone        PaymentMethod = "phone"
)

// PaymentMethods lists the supported payment methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCard,
		PaymentMethodKakaoPay,
		PaymentMethodNaverPay,
		PaymentMethodTossPay,
		PaymentMethodBankTransfer,
		PaymentMethodPhone,
	}
}

// IsValid reports whether m is one of the supported payment methods.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodKakaoPay,
		PaymentMethodNaverPay, PaymentMethodTossPay, PaymentMethodPhone:
		return true
	}
	return false
}

// ShippingAddress is captured at checkout and never changes afterwards.
type ShippingAddress struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress,omitempty"`
	ZipCode       string `json:"zipCode,omitempty"`
	Memo          string `json:"memo,omitempty"`
}

// MissingFields lists the required fields that are blank.
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	if a.Name == "" {
		missing = append(missing, "name")
	}
	if a.Phone == "" {
		missing = append(missing, "phone")
	}
	if a.Address == "" {
		missing = append(missing, "address")
	}
	return missing
}

// StatusEntry records one lifecycle transition.
type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Message   string      `json:"message"`
}

// Order is an immutable snapshot of a checkout plus its mutable status.
type Order struct {
	ID                string          `json:"id"`
	TrackingNumber    string          `json:"trackingNumber"`
	UserID            string          `json:"userId"`
	Items             []CartItem      `json:"items"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	Subtotal          int64           `json:"subtotal"`
	ShippingFee       int64           `json:"shippingFee"`
	Total             int64           `json:"total"`
	Status            OrderStatus     `json:"status"`
	IsRocket          bool            `json:"isRocket"`
	EstimatedDelivery string          `json:"estimatedDelivery"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	StatusHistory     []StatusEntry   `json:"statusHistory"`
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = CloneCartItems(o.Items)
	c.StatusHistory = make([]StatusEntry, len(o.StatusHistory))
	copy(c.StatusHistory, o.StatusHistory)
	return &c
}

// GuestUserID owns orders placed without logging in.
const GuestUserID = "guest"
