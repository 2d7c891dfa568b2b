package models

import "time"

type Product struct {
	ID          string
	Name        string
	Price       string
	Description string
	ImagePath   string
	ThumbPath   string
	Seller      string
	SellerName  string
	SellerEmail string
	CreatedAt   time.Time
}
