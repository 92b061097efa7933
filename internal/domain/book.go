package domain

import (
	"time"
)

// Book represents a book record in the catalog.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Price       int64     `json:"price"`
	Discount    int64     `json:"discount"`
	Pages       int       `json:"pages"`
	PublishDate time.Time `json:"publish_date"`
	ImageLink   string    `json:"image_link"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
