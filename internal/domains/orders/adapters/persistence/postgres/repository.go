package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
	"github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in a relational database using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle and schema (see migrations.Run).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table. Lines are stored as a JSON snapshot.
type orderRecord struct {
	ID            string          `gorm:"primaryKey;column:id;size:64"`
	Position      int64           `gorm:"column:position;index"`
	UserID        string          `gorm:"column:user_id;size:64;index"`
	Lines         []lineColumn    `gorm:"column:lines;type:text;serializer:json"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status        string          `gorm:"column:status;type:varchar(32);index"`
	Address       string          `gorm:"column:address"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(32)"`
	CreatedAt     time.Time       `gorm:"column:created_at;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type lineColumn struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency,omitempty"`
	Quantity    int             `json:"quantity"`
}

// Save inserts a new order or updates the status of an existing one.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&orderRecord{}).Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return err
		}
		record.Position = last + 1
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     record.Status,
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all orders in insertion order.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db)
}

// ListByUser returns one user's orders in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.Where("user_id = ?", userID))
}

func (r *Repository) find(ctx context.Context, scope *gorm.DB) ([]*domain.Order, error) {
	var records []orderRecord
	if err := scope.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := make([]lineColumn, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, lineColumn{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			Description: l.Product.Description,
			Price:       l.Product.Price,
			Image:       l.Product.Image,
			Category:    string(l.Product.Category),
			Currency:    l.Product.Currency,
			Quantity:    l.Quantity,
		})
	}
	return orderRecord{
		ID:            order.ID,
		UserID:        order.UserID,
		Lines:         lines,
		Total:         order.Total,
		Status:        string(order.Status),
		Address:       order.Address,
		PaymentMethod: string(order.PaymentMethod),
		CreatedAt:     order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	lines := make([]domain.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, domain.Line{
			Product: catalogdomain.Product{
				ID:          l.ProductID,
				Name:        l.Name,
				Description: l.Description,
				Price:       l.Price,
				Image:       l.Image,
				Category:    catalogdomain.Category(l.Category),
				Currency:    l.Currency,
			},
			Quantity: l.Quantity,
		})
	}
	return &domain.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		Lines:         lines,
		Total:         r.Total,
		Status:        domain.Status(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
		Address:       r.Address,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
	}
}
