package models

import (
	"time"
)

// Locale codes supported by the bot. Uzbek is the fallback for every
// localized field.
const (
	LocaleUz = "uz"
	LocaleRu = "ru"
)

type User struct {
	ID           uint   `gorm:"primaryKey"                json:"id"`
	TelegramID   int64  `gorm:"uniqueIndex;not null"      json:"telegram_id"`
	Username     string `gorm:"size:255"                  json:"username"`
	FirstName    string `gorm:"size:255"                  json:"first_name"`
	LastName     string `gorm:"size:255"                  json:"last_name"`
	Phone        string `gorm:"size:20"                   json:"phone"`
	Address      string `json:"address"`
	LanguageCode string `gorm:"size:2;default:'uz'"       json:"language_code"`
	Role         string `gorm:"size:16;default:'customer'" json:"role"`
	ReferralCode string `gorm:"size:8;uniqueIndex"        json:"referral_code"`
	ReferredBy   string `gorm:"size:8"                    json:"referred_by"`
	BonusBalance int64  `gorm:"default:0;check:bonus_balance >= 0" json:"bonus_balance"`
	IsActive     bool   `gorm:"default:true"              json:"is_active"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID            uint   `gorm:"primaryKey"   json:"id"`
	NameUz        string `gorm:"not null"     json:"name_uz"`
	NameRu        string `gorm:"not null"     json:"name_ru"`
	DescriptionUz string `json:"description_uz"`
	DescriptionRu string `json:"description_ru"`
	ImageURL      string `json:"image_url"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time
}

// Name returns the localized category name, falling back to Uzbek.
func (c Category) Name(locale string) string {
	if locale == LocaleRu && c.NameRu != "" {
		return c.NameRu
	}
	return c.NameUz
}

type Product struct {
	ID            uint   `gorm:"primaryKey"   json:"id"`
	CategoryID    *uint  `gorm:"index"        json:"category_id"`
	NameUz        string `gorm:"not null"     json:"name_uz"`
	NameRu        string `gorm:"not null"     json:"name_ru"`
	DescriptionUz string `json:"description_uz"`
	DescriptionRu string `json:"description_ru"`
	Price         int64  `gorm:"not null;check:price > 0" json:"price"`
	ImageURL      string `json:"image_url"`
	IsAvailable   bool   `gorm:"default:true" json:"is_available"`
	CreatedAt     time.Time
}

func (p Product) Name(locale string) string {
	if locale == LocaleRu && p.NameRu != "" {
		return p.NameRu
	}
	return p.NameUz
}

func (p Product) Description(locale string) string {
	if locale == LocaleRu && p.DescriptionRu != "" {
		return p.DescriptionRu
	}
	return p.DescriptionUz
}

type CartItem struct {
	ID        uint  `gorm:"primaryKey"                              json:"id"`
	UserID    int64 `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint  `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  int   `gorm:"default:1;check:quantity > 0"            json:"quantity"`
	CreatedAt time.Time

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartItem) TableName() string { return "cart_items" }

// Order lifecycle states. Transitions run forward through the pipeline;
// cancellation is reachable from any non-terminal state.
const (
	OrderStatusNew        = "new"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusReady      = "ready"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// Payment methods the checkout keyboard offers.
const (
	PaymentCash   = "cash"
	PaymentPayme  = "payme"
	PaymentClick  = "click"
	PaymentUzcard = "uzcard"
)

var orderStatusRank = map[string]int{
	OrderStatusNew:        0,
	OrderStatusConfirmed:  1,
	OrderStatusPreparing:  2,
	OrderStatusReady:      3,
	OrderStatusDelivering: 4,
	OrderStatusCompleted:  5,
}

func ValidOrderStatus(s string) bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another: strictly forward along the pipeline, or to cancelled from any
// non-terminal state.
func CanTransition(from, to string) bool {
	if from == OrderStatusCompleted || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentPayme, PaymentClick, PaymentUzcard:
		return true
	}
	return false
}

type Order struct {
	ID              uint     `gorm:"primaryKey"           json:"id"`
	UserID          int64    `gorm:"index;not null"       json:"user_id"`
	CourierID       *int64   `json:"courier_id"`
	TotalAmount     int64    `gorm:"not null"             json:"total_amount"`
	DeliveryAddress string   `gorm:"not null"             json:"delivery_address"`
	Phone           string   `gorm:"not null"             json:"phone"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	PaymentMethod   string   `gorm:"not null"             json:"payment_method"`
	PaymentStatus   string   `gorm:"default:'pending'"    json:"payment_status"`
	OrderStatus     string   `gorm:"default:'new';index"  json:"order_status"`
	Notes           string   `json:"notes"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem freezes the unit price at order time; later product price
// changes never touch it.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey"     json:"id"`
	OrderID   uint  `gorm:"index;not null" json:"order_id"`
	ProductID uint  `gorm:"not null"       json:"product_id"`
	Quantity  int   `gorm:"not null"       json:"quantity"`
	Price     int64 `gorm:"not null"       json:"price"`
}

type Referral struct {
	ID           uint  `gorm:"primaryKey"     json:"id"`
	ReferrerID   int64 `gorm:"index;not null" json:"referrer_id"`
	ReferredID   int64 `gorm:"not null"       json:"referred_id"`
	BonusAwarded bool  `gorm:"default:false"  json:"bonus_awarded"`
	CreatedAt    time.Time
}

type AIRecommendation struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	UserID             int64   `gorm:"index"      json:"user_id"`
	ProductID          uint    `json:"product_id"`
	RecommendationType string  `gorm:"size:32"    json:"recommendation_type"`
	ConfidenceScore    float64 `json:"confidence_score"`
	CreatedAt          time.Time
}

// AllModels is the AutoMigrate list.
func AllModels() []any {
	return []any{
		&User{}, &Category{}, &Product{}, &CartItem{},
		&Order{}, &OrderItem{}, &Referral{}, &AIRecommendation{},
	}
}
