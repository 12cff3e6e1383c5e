package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every relational adapter. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&stockReservationRecord{},
		&orderRecord{},
		&userRecord{},
		&sessionRecord{},
		&kvEntryRecord{},
		&checkoutIdempotencyRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	Position    int64           `gorm:"column:position;index"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Image       string          `gorm:"column:image"`
	Category    string          `gorm:"column:category;type:varchar(32);index"`
	Stock       int             `gorm:"column:stock"`
	Currency    string          `gorm:"column:currency;size:8"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Stock reservation ledger mirrors the catalog Postgres adapter.
type stockReservationRecord struct {
	Key       string    `gorm:"primaryKey;column:reservation_key;size:255"`
	Line      int       `gorm:"primaryKey;column:line"`
	ProductID string    `gorm:"column:product_id;size:64"`
	Quantity  int       `gorm:"column:quantity"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (stockReservationRecord) TableName() string { return "stock_reservations" }

// Order schema mirrors the orders Postgres adapter. Lines hold a JSON snapshot.
type orderRecord struct {
	ID            string          `gorm:"primaryKey;column:id;size:64"`
	Position      int64           `gorm:"column:position;index"`
	UserID        string          `gorm:"column:user_id;size:64;index"`
	Lines         string          `gorm:"column:lines;type:text"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status        string          `gorm:"column:status;type:varchar(32);index"`
	Address       string          `gorm:"column:address"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(32)"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:64"`
	Position     int64     `gorm:"column:position;index"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;size:320;uniqueIndex"`
	Role         string    `gorm:"column:role;type:varchar(16)"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:1024"`
	UserID    string    `gorm:"column:user_id;size:64;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Key-value schema mirrors kvstore.GormStore.
type kvEntryRecord struct {
	Key       string    `gorm:"primaryKey;column:entry_key;size:255"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (kvEntryRecord) TableName() string { return "kv_entries" }

// Checkout idempotency schema mirrors the checkout Postgres adapter.
type checkoutIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:64"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (checkoutIdempotencyRecord) TableName() string { return "checkout_idempotency_keys" }
