package billing

import "time"

// Plan is one subscription tier. The catalog is authored in YAML and synced
// into this table on boot; Code is the stable identity across syncs.
type Plan struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name        string `gorm:"column:name;not null" json:"name"`
	PriceCents  int    `gorm:"column:price_cents;not null" json:"price_cents"`
	Currency    string `gorm:"column:currency;not null;default:USD" json:"currency"`
	MaxSeats    int    `gorm:"column:max_seats;not null" json:"max_seats"`
	MaxProducts int    `gorm:"column:max_products;not null" json:"max_products"`
	MaxOffers   int    `gorm:"column:max_offers;not null" json:"max_offers"`
	MaxBuyers   int    `gorm:"column:max_buyers;not null" json:"max_buyers"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Plan) TableName() string { return "plan" }
