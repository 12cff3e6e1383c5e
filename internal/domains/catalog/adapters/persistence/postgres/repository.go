package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the catalog in a relational database using GORM.
// It runs against PostgreSQL in production and SQLite for local files and tests.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle and schema (see migrations.Run).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product aggregate to a relational table.
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

// reservationRecord is one line of a keyed reservation, kept until the key is released.
type reservationRecord struct {
	Key       string    `gorm:"primaryKey;column:reservation_key;size:255"`
	Line      int       `gorm:"primaryKey;column:line"`
	ProductID string    `gorm:"column:product_id;size:64"`
	Quantity  int       `gorm:"column:quantity"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reservationRecord) TableName() string { return "stock_reservations" }

// List returns all products in insertion order.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record, err := findRecord(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Create appends a product after the current last position.
func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&productRecord{}).Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return err
		}
		record.Position = last + 1
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Update replaces an existing product; unknown ids write nothing.
func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":        record.Name,
		"description": record.Description,
		"price":       record.Price,
		"image":       record.Image,
		"category":    record.Category,
		"stock":       record.Stock,
		"currency":    record.Currency,
		"updated_at":  time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// SetStock overwrites stock levels inside one transaction.
func (r *Repository) SetStock(ctx context.Context, updates []domain.StockUpdate) ([]domain.StockChange, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	changes := make([]domain.StockChange, 0, len(updates))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			if u.Stock < 0 {
				return fmt.Errorf("%w: product %s", domain.ErrNegativeStock, u.ProductID)
			}
			record, err := findRecord(tx, u.ProductID)
			if err != nil {
				return err
			}
			if err := tx.Model(&productRecord{}).Where("id = ?", u.ProductID).
				Updates(map[string]any{"stock": u.Stock, "updated_at": time.Now().UTC()}).Error; err != nil {
				return err
			}
			changes = append(changes, domain.StockChange{ProductID: u.ProductID, Before: record.Stock, After: u.Stock})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// Reserve decrements stock with a guarded update per line; any shortfall rolls back the whole batch.
// The ledger rows for a non-empty key are written first, so a concurrent duplicate fails on the primary key.
func (r *Repository) Reserve(ctx context.Context, key string, reservations []domain.StockReservation) ([]*domain.Product, bool, error) {
	if err := r.ensureDB(); err != nil {
		return nil, false, err
	}
	reserved := make([]*domain.Product, 0, len(reservations))
	applied := true
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if key != "" {
			held, err := heldReservations(tx, key)
			if err != nil {
				return err
			}
			if len(held) > 0 {
				applied = false
				reserved, err = currentProducts(tx, held)
				return err
			}
			rows := make([]reservationRecord, 0, len(reservations))
			for i, res := range reservations {
				rows = append(rows, reservationRecord{Key: key, Line: i, ProductID: res.ProductID, Quantity: res.Quantity, CreatedAt: time.Now().UTC()})
			}
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
		}
		for _, res := range reservations {
			if res.Quantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			result := tx.Model(&productRecord{}).
				Where("id = ? AND stock >= ?", res.ProductID, res.Quantity).
				Updates(map[string]any{"stock": gorm.Expr("stock - ?", res.Quantity), "updated_at": time.Now().UTC()})
			if result.Error != nil {
				return result.Error
			}
			record, err := findRecord(tx, res.ProductID)
			if err != nil {
				return err
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %q has %d, requested %d", domain.ErrInsufficientStock, record.Name, record.Stock, res.Quantity)
			}
			reserved = append(reserved, record.toDomain())
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) && key != "" {
		// Lost the race to another attempt under the same key; its rows are now visible.
		return r.Reserve(ctx, key, reservations)
	}
	if err != nil {
		return nil, false, err
	}
	return reserved, applied, nil
}

// Release returns stock to products that still exist. With a key it returns what the key holds, once.
func (r *Repository) Release(ctx context.Context, key string, reservations []domain.StockReservation) ([]domain.StockChange, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	changes := make([]domain.StockChange, 0, len(reservations))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if key != "" {
			held, err := heldReservations(tx, key)
			if err != nil {
				return err
			}
			if err := tx.Where("reservation_key = ?", key).Delete(&reservationRecord{}).Error; err != nil {
				return err
			}
			reservations = held
		}
		for _, res := range reservations {
			if res.Quantity <= 0 {
				continue
			}
			result := tx.Model(&productRecord{}).Where("id = ?", res.ProductID).
				Updates(map[string]any{"stock": gorm.Expr("stock + ?", res.Quantity), "updated_at": time.Now().UTC()})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				continue
			}
			record, err := findRecord(tx, res.ProductID)
			if err != nil {
				return err
			}
			changes = append(changes, domain.StockChange{ProductID: res.ProductID, Before: record.Stock - res.Quantity, After: record.Stock})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func heldReservations(tx *gorm.DB, key string) ([]domain.StockReservation, error) {
	var rows []reservationRecord
	if err := tx.Where("reservation_key = ?", key).Order("line ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	held := make([]domain.StockReservation, 0, len(rows))
	for _, row := range rows {
		held = append(held, domain.StockReservation{ProductID: row.ProductID, Quantity: row.Quantity})
	}
	return held, nil
}

func currentProducts(tx *gorm.DB, held []domain.StockReservation) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(held))
	for _, res := range held {
		record, err := findRecord(tx, res.ProductID)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, record.toDomain())
	}
	return products, nil
}

func findRecord(db *gorm.DB, id string) (*productRecord, error) {
	var record productRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("catalog repository not configured")
	}
	return nil
}

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    string(p.Category),
		Stock:       p.Stock,
		Currency:    p.Currency,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    domain.Category(r.Category),
		Stock:       r.Stock,
		Currency:    r.Currency,
	}
}
