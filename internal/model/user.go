package model

import "time"

// User is the logged-in user's public profile.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredUser is a users-directory record. PasswordHash never leaves the directory.
type StoredUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// Notification is synthesised from an order's status history.
type Notification struct {
	ID        string      `json:"id"`
	OrderID   string      `json:"orderId"`
	Status    OrderStatus `json:"status"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
	Read      bool        `json:"read"`
}
