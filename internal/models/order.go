package models

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderRef        string      `gorm:"uniqueIndex;not null" json:"orderRef"`
	CustomerName    string      `gorm:"not null" json:"customerName"`
	CustomerPhone   string      `gorm:"not null" json:"customerPhone"`
	AlternatePhone  string      `json:"alternatePhone,omitempty"`
	CustomerAddress string      `gorm:"not null" json:"customerAddress"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     float64     `gorm:"not null" json:"totalAmount"`
	Status          OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderItem is a snapshot of the product at order time. Name, price and image
// stay as they were even if the product is later edited or deleted.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	OrderID     uint    `gorm:"index;not null" json:"-"`
	ProductID   uint    `gorm:"index" json:"productId,omitempty"`
	ProductName string  `gorm:"not null" json:"productName"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Size        string  `json:"size,omitempty"`
	Color       string  `json:"color,omitempty"`
	Image       string  `json:"image,omitempty"`
}
