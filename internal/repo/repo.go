package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrEmptyCart is returned when an order is requested for a user whose
// cart has no lines. Creating a zero-line order is never allowed.
var ErrEmptyCart = errors.New("cart is empty")

// ErrStaleStatus is returned when a guarded status update matched no row:
// the order moved to another status between the read and the write.
var ErrStaleStatus = errors.New("order status changed concurrently")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
