// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	redisdb "github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

// Catalog resolves purchasable entities for the cart
type Catalog interface {
	ResolveVariant(variantID uint) (*catalog.ResolvedVariant, error)
}

// Service handles shopping cart operations. The database row is the source of
// truth; guest carts additionally keep a Redis snapshot so storefront page
// loads skip the database on the hot path.
type Service struct {
	db          *gorm.DB
	redisClient *redisdb.Client
	catalog     Catalog
	config      *config.Config
	log         *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redisdb.Client, cat Catalog, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		catalog:     cat,
		config:      cfg,
		log:         log,
	}
}

// EnsureCart returns the owner's cart, creating an empty one if none exists
func (s *Service) EnsureCart(owner Owner) (*Cart, error) {
	if !owner.Valid() {
		return nil, ErrInvalidOwner
	}

	if sessionID, ok := owner.SessionID(); ok {
		if cached := s.getCachedCart(sessionID); cached != nil {
			return cached, nil
		}
	}

	cart, err := s.findCart(owner)
	if err == nil {
		s.cacheCart(cart)
		return cart, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	cart = &Cart{
		ID:    uuid.New().String(),
		Items: ItemList{},
	}
	if userID, ok := owner.UserID(); ok {
		cart.UserID = &userID
	}
	if sessionID, ok := owner.SessionID(); ok {
		cart.SessionID = &sessionID
	}

	if err := s.db.Create(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"cart_id": cart.ID,
		"guest":   owner.IsGuest(),
	}).Info("Cart created")

	s.cacheCart(cart)
	return cart, nil
}

// GetCart returns the owner's cart without creating one
func (s *Service) GetCart(owner Owner) (*Cart, error) {
	if !owner.Valid() {
		return nil, ErrInvalidOwner
	}
	return s.findCart(owner)
}

// AddItem adds a variant to the owner's cart. Adding a variant that is already
// in the cart merges into the existing line instead of appending a duplicate.
func (s *Service) AddItem(owner Owner, variantID uint, quantity int) (*Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	resolved, err := s.catalog.ResolveVariant(variantID)
	if err != nil {
		return nil, err
	}

	cart, err := s.EnsureCart(owner)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].VariantID == resolved.VariantID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, Item{
			ID:        uuid.New().String(),
			VariantID: resolved.VariantID,
			ProductID: resolved.ProductID,
			Quantity:  quantity,
			Price:     resolved.Price,
			Title:     resolved.Title,
			Thumbnail: resolved.Thumbnail,
		})
	}

	if err := s.persist(cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// UpdateItemQuantity sets a line's quantity. A quantity of zero or less removes
// the line entirely.
func (s *Service) UpdateItemQuantity(owner Owner, itemID string, quantity int) (*Cart, error) {
	cart, err := s.EnsureCart(owner)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	} else {
		cart.Items[index].Quantity = quantity
	}

	if err := s.persist(cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// RemoveItem removes a line from the cart. Removing an unknown item is a no-op.
func (s *Service) RemoveItem(owner Owner, itemID string) (*Cart, error) {
	cart, err := s.EnsureCart(owner)
	if err != nil {
		return nil, err
	}

	filtered := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}
	cart.Items = filtered

	if err := s.persist(cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// ClearCart empties the cart. The cart row itself is kept.
func (s *Service) ClearCart(owner Owner) (*Cart, error) {
	cart, err := s.EnsureCart(owner)
	if err != nil {
		return nil, err
	}

	cart.Items = ItemList{}

	if err := s.persist(cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// ItemCount returns the total quantity in the owner's cart. A missing cart
// counts as zero.
func (s *Service) ItemCount(owner Owner) (int, error) {
	cart, err := s.GetCart(owner)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return cart.ItemCount(), nil
}

// Migrate re-keys a guest cart to an authenticated user: session_id is cleared
// and user_id is set in place, so the item list and total carry over untouched.
// The transfer happens at most once per cart; afterwards the cart no longer
// answers to any session lookup.
func (s *Service) Migrate(sessionID string, userID uint) (*Cart, error) {
	var cart Cart
	err := s.db.Where("session_id = ?", sessionID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}

	if cart.UserID != nil {
		return nil, ErrNotGuestCart
	}

	updates := map[string]interface{}{
		"user_id":    userID,
		"session_id": nil,
	}
	if err := s.db.Model(&cart).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to migrate cart: %w", err)
	}

	s.dropCachedCart(sessionID)

	s.log.WithFields(logrus.Fields{
		"cart_id": cart.ID,
		"user_id": userID,
		"items":   len(cart.Items),
	}).Info("Guest cart migrated to user")

	return s.EnsureCart(UserOwner(userID))
}

// findCart looks a cart up by its owner key
func (s *Service) findCart(owner Owner) (*Cart, error) {
	query := s.db.Model(&Cart{})
	if userID, ok := owner.UserID(); ok {
		query = query.Where("user_id = ?", userID)
	} else if sessionID, ok := owner.SessionID(); ok {
		query = query.Where("session_id = ?", sessionID)
	} else {
		return nil, ErrInvalidOwner
	}

	var cart Cart
	if err := query.Order("updated_at DESC").First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &cart, nil
}

// persist recomputes the total from the item list and writes items and total in
// a single row update, then refreshes the guest snapshot. Partial writes are
// impossible: a cart row is never updated field by field.
func (s *Service) persist(cart *Cart) error {
	cart.Total = cart.ComputeTotal()

	updates := map[string]interface{}{
		"items": cart.Items,
		"total": cart.Total,
	}
	if err := s.db.Model(cart).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	s.cacheCart(cart)
	return nil
}

func (s *Service) sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// cacheCart stores a guest cart snapshot in Redis. Cache failures are logged
// and swallowed; the database row stays authoritative.
func (s *Service) cacheCart(cart *Cart) {
	if s.redisClient == nil || cart.SessionID == nil {
		return
	}

	ctx := context.Background()
	key := s.sessionKey(*cart.SessionID)
	if err := s.redisClient.SetJSON(ctx, key, cart, s.config.Cart.GuestSessionTTL); err != nil {
		s.log.WithError(err).WithField("cart_id", cart.ID).Warn("Failed to cache guest cart")
	}
}

func (s *Service) getCachedCart(sessionID string) *Cart {
	if s.redisClient == nil {
		return nil
	}

	var cart Cart
	err := s.redisClient.GetJSON(context.Background(), s.sessionKey(sessionID), &cart)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.log.WithError(err).Warn("Failed to read guest cart cache")
		}
		return nil
	}

	return &cart
}

func (s *Service) dropCachedCart(sessionID string) {
	if s.redisClient == nil {
		return
	}

	if err := s.redisClient.Del(context.Background(), s.sessionKey(sessionID)); err != nil {
		s.log.WithError(err).Warn("Failed to drop guest cart cache")
	}
}
