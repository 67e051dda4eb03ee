package models

import (
	"time"
)

// Order lifecycle states
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment states
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// OrderItem is one line of an order. UnitPrice is a snapshot of the
// product price at order time; LineTotal = UnitPrice * Quantity.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	LineTotal float64 `bson:"line_total" json:"line_total"`
}

// Delivery is the delivery sub-record of an order.
type Delivery struct {
	Method         string  `bson:"method" json:"method"` // "standard", "express", "pickup"
	Status         string  `bson:"status" json:"status"`
	Address        Address `bson:"address" json:"address"`
	TrackingNumber string  `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
}

// Order represents a customer's order. CustomerID is a weak reference to
// a User record; order items carry weak references to Products.
type Order struct {
	ID            string      `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNumber   string      `bson:"order_number" json:"order_number"`
	CustomerID    string      `bson:"customer_id" json:"customer_id"`
	Items         []OrderItem `bson:"items" json:"items"`
	Total         float64     `bson:"total" json:"total"`
	Status        string      `bson:"status" json:"status"`
	Delivery      Delivery    `bson:"delivery" json:"delivery"`
	PaymentMethod string      `bson:"payment_method" json:"payment_method"` // "card" or "transfer"
	PaymentStatus string      `bson:"payment_status" json:"payment_status"`
	Notes         string      `bson:"notes,omitempty" json:"notes,omitempty"`
	OrderDate     time.Time   `bson:"order_date" json:"order_date"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at" json:"updated_at"`
}
