package checkout

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopworks/ecommerce-api/models"
)

// ErrNotFound is returned by Store lookups when the row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the durable state the checkout transition reads and writes. Tx
// runs fn against a transactional view; every write issued through the
// nested Store commits or rolls back atomically.
type Store interface {
	Tx(ctx context.Context, fn func(Store) error) error

	// CartForUpdate loads a cart with its items, holding a row lock for
	// the duration of the surrounding transaction.
	CartForUpdate(ctx context.Context, cartID uint) (*models.Cart, error)
	SetCartStatus(ctx context.Context, cartID uint, status models.CartStatus) error
	ClearCart(ctx context.Context, cartID uint) error

	ProductForUpdate(ctx context.Context, productID uint) (*models.Product, error)
	AdjustStock(ctx context.Context, productID uint, delta int) error

	CreateOrder(ctx context.Context, order *models.Order) error
	SaveOrder(ctx context.Context, order *models.Order) error
	OrderByID(ctx context.Context, orderID uint) (*models.Order, error)

	// SavePayment upserts by order id: retrying a failed order replaces
	// its payment row instead of creating a second one.
	SavePayment(ctx context.Context, payment *models.Payment) error
}

// GormStore backs Store with a Postgres database through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Tx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CartForUpdate(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&cart, "cart_id = ?", cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (s *GormStore) SetCartStatus(ctx context.Context, cartID uint, status models.CartStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("cart_id = ?", cartID).
		Update("status", status).Error
}

func (s *GormStore) ClearCart(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

func (s *GormStore) ProductForUpdate(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *GormStore) AdjustStock(ctx context.Context, productID uint, delta int) error {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormStore) SaveOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (s *GormStore) OrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) SavePayment(ctx context.Context, payment *models.Payment) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			UpdateAll: true,
		}).
		Create(payment).Error
}
