// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// ShippingAddress is snapshotted onto the order at creation time.
type ShippingAddress struct {
	Street  string `json:"street" gorm:"size:255;not null"`
	City    string `json:"city" gorm:"size:100;not null"`
	State   string `json:"state" gorm:"size:100;not null"`
	ZipCode string `json:"zipCode" gorm:"size:20;not null"`
}

type Order struct {
	BaseModel
	UserID          uuid.UUID       `json:"userId" gorm:"type:uuid;not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount     float64         `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// OrderItem freezes the product price at order time; it never follows
// later product price changes.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
