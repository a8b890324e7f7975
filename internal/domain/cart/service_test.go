// internal/domain/cart/service_test.go
package cart

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	models := []interface{}{
		&catalog.Category{}, &catalog.Brand{}, &catalog.Product{}, &catalog.ProductVariant{},
		&Cart{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			t.Fatalf("failed to migrate %T: %v", model, err)
		}
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Cart: config.CartConfig{GuestSessionTTL: 24 * time.Hour},
	}

	return NewService(db, nil, catalog.NewService(db, log), cfg, log), db
}

// seedProduct creates a category and an active product, returning the product ID
func seedProduct(t *testing.T, db *gorm.DB, sku string, price int64) uint {
	t.Helper()

	var category catalog.Category
	err := db.Where("slug = ?", "test").First(&category).Error
	if err != nil {
		category = catalog.Category{Name: "Test", Slug: "test", Path: "test", IsActive: true}
		if err := db.Create(&category).Error; err != nil {
			t.Fatalf("failed to create category: %v", err)
		}
	}

	product := catalog.Product{
		SKU:        sku,
		Name:       "Product " + sku,
		Slug:       "product-" + sku,
		Price:      price,
		CategoryID: category.ID,
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product.ID
}

func TestEnsureCartCreatesOncePerOwner(t *testing.T) {
	s, _ := newTestService(t)

	owner := GuestOwner("session-1")

	first, err := s.EnsureCart(owner)
	if err != nil {
		t.Fatalf("failed to ensure cart: %v", err)
	}
	second, err := s.EnsureCart(owner)
	if err != nil {
		t.Fatalf("failed to ensure cart again: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("EnsureCart created a second cart: %s != %s", first.ID, second.ID)
	}

	if _, err := s.EnsureCart(Owner{}); !errors.Is(err, ErrInvalidOwner) {
		t.Errorf("zero owner: err = %v, want ErrInvalidOwner", err)
	}
}

func TestAddItemMergesSameVariant(t *testing.T) {
	s, db := newTestService(t)
	productID := seedProduct(t, db, "A", 1500)

	owner := GuestOwner("session-1")

	if _, err := s.AddItem(owner, productID, 2); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	result, err := s.AddItem(owner, productID, 3)
	if err != nil {
		t.Fatalf("failed to add item again: %v", err)
	}

	if len(result.Items) != 1 {
		t.Fatalf("item count = %d, want 1 (merged)", len(result.Items))
	}
	if result.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", result.Items[0].Quantity)
	}
	if result.Total != 1500*5 {
		t.Errorf("total = %d, want %d", result.Total, 1500*5)
	}
}

func TestAddItemUnknownVariant(t *testing.T) {
	s, _ := newTestService(t)

	if _, err := s.AddItem(GuestOwner("session-1"), 9999, 1); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("unknown variant: err = %v, want ErrProductNotFound", err)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s, db := newTestService(t)
	productID := seedProduct(t, db, "A", 1000)

	owner := GuestOwner("session-1")

	added, err := s.AddItem(owner, productID, 2)
	if err != nil {
		t.Fatalf("failed to add item: %v", err)
	}

	result, err := s.UpdateItemQuantity(owner, added.Items[0].ID, 0)
	if err != nil {
		t.Fatalf("failed to update quantity: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("item count = %d, want 0", len(result.Items))
	}
	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}

	// Absent from a fresh read as well
	reloaded, err := s.EnsureCart(owner)
	if err != nil {
		t.Fatalf("failed to reload cart: %v", err)
	}
	if len(reloaded.Items) != 0 {
		t.Errorf("reloaded item count = %d, want 0", len(reloaded.Items))
	}
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	s, _ := newTestService(t)

	if _, err := s.UpdateItemQuantity(GuestOwner("session-1"), "no-such-item", 2); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("unknown item: err = %v, want ErrItemNotFound", err)
	}
}

func TestRemoveItemIsSilentForUnknownID(t *testing.T) {
	s, db := newTestService(t)
	productID := seedProduct(t, db, "A", 1000)

	owner := GuestOwner("session-1")
	if _, err := s.AddItem(owner, productID, 1); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}

	result, err := s.RemoveItem(owner, "no-such-item")
	if err != nil {
		t.Fatalf("remove unknown item: %v", err)
	}
	if len(result.Items) != 1 {
		t.Errorf("item count = %d, want 1 (nothing removed)", len(result.Items))
	}
}

func TestTotalAlwaysRecomputedFromItems(t *testing.T) {
	s, db := newTestService(t)
	first := seedProduct(t, db, "A", 1000)
	second := seedProduct(t, db, "B", 250)

	owner := GuestOwner("session-1")

	if _, err := s.AddItem(owner, first, 2); err != nil {
		t.Fatalf("failed to add first item: %v", err)
	}
	result, err := s.AddItem(owner, second, 4)
	if err != nil {
		t.Fatalf("failed to add second item: %v", err)
	}

	want := int64(1000*2 + 250*4)
	if result.Total != want {
		t.Errorf("total = %d, want %d", result.Total, want)
	}

	// Dropping a line drops its contribution
	result, err = s.RemoveItem(owner, result.Items[0].ID)
	if err != nil {
		t.Fatalf("failed to remove item: %v", err)
	}
	if result.Total != 250*4 {
		t.Errorf("total after removal = %d, want %d", result.Total, 250*4)
	}
}

func TestClearCartKeepsRow(t *testing.T) {
	s, db := newTestService(t)
	productID := seedProduct(t, db, "A", 1000)

	owner := GuestOwner("session-1")
	created, err := s.AddItem(owner, productID, 3)
	if err != nil {
		t.Fatalf("failed to add item: %v", err)
	}

	cleared, err := s.ClearCart(owner)
	if err != nil {
		t.Fatalf("failed to clear cart: %v", err)
	}
	if cleared.ID != created.ID {
		t.Errorf("clear replaced the cart row: %s != %s", cleared.ID, created.ID)
	}
	if len(cleared.Items) != 0 || cleared.Total != 0 {
		t.Errorf("cleared cart = {items: %d, total: %d}, want empty", len(cleared.Items), cleared.Total)
	}
}

func TestMigratePreservesItemsAndTotal(t *testing.T) {
	svc, store := newTestService(t)
	first := seedProduct(t, store, "A", 1000)
	second := seedProduct(t, store, "B", 500)

	sessionID := "session-guest"
	owner := GuestOwner(sessionID)

	if _, err := svc.AddItem(owner, first, 2); err != nil {
		t.Fatalf("failed to add first item: %v", err)
	}
	before, err := svc.AddItem(owner, second, 1)
	if err != nil {
		t.Fatalf("failed to add second item: %v", err)
	}

	const userID = uint(42)
	migrated, err := svc.Migrate(sessionID, userID)
	if err != nil {
		t.Fatalf("failed to migrate cart: %v", err)
	}

	if migrated.ID != before.ID {
		t.Errorf("migration created a new cart: %s != %s", migrated.ID, before.ID)
	}
	if migrated.UserID == nil || *migrated.UserID != userID {
		t.Errorf("user_id = %v, want %d", migrated.UserID, userID)
	}
	if migrated.SessionID != nil {
		t.Errorf("session_id = %v, want nil", *migrated.SessionID)
	}
	if diff := cmp.Diff(before.Items, migrated.Items); diff != "" {
		t.Errorf("items changed during migration (-before +after):\n%s", diff)
	}
	if migrated.Total != before.Total {
		t.Errorf("total = %d, want %d", migrated.Total, before.Total)
	}

	// The cart no longer answers to any session lookup
	if _, err := svc.GetCart(GuestOwner(sessionID)); !errors.Is(err, ErrCartNotFound) {
		t.Errorf("session lookup after migration: err = %v, want ErrCartNotFound", err)
	}

	// Migration happens at most once per cart
	if _, err := svc.Migrate(sessionID, userID); !errors.Is(err, ErrCartNotFound) {
		t.Errorf("second migration: err = %v, want ErrCartNotFound", err)
	}

	// Steady state: user lookup finds the migrated cart
	steady, err := svc.EnsureCart(UserOwner(userID))
	if err != nil {
		t.Fatalf("failed to ensure user cart: %v", err)
	}
	if steady.ID != migrated.ID {
		t.Errorf("user cart = %s, want migrated cart %s", steady.ID, migrated.ID)
	}
}

func TestMigrateRejectsUserOwnedCart(t *testing.T) {
	svc, store := newTestService(t)

	// A cart that still carries a session but already belongs to a user
	userID := uint(7)
	sessionID := "stale-session"
	corrupt := Cart{ID: "cart-1", UserID: &userID, SessionID: &sessionID, Items: ItemList{}}
	if err := store.Create(&corrupt).Error; err != nil {
		t.Fatalf("failed to create cart: %v", err)
	}

	if _, err := svc.Migrate(sessionID, 99); !errors.Is(err, ErrNotGuestCart) {
		t.Errorf("migrate user-owned cart: err = %v, want ErrNotGuestCart", err)
	}
}

func TestItemCount(t *testing.T) {
	svc, store := newTestService(t)
	productID := seedProduct(t, store, "A", 1000)

	owner := GuestOwner("session-1")

	count, err := svc.ItemCount(owner)
	if err != nil {
		t.Fatalf("failed to count empty: %v", err)
	}
	if count != 0 {
		t.Errorf("count before any cart = %d, want 0", count)
	}

	if _, err := svc.AddItem(owner, productID, 3); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}

	count, err = svc.ItemCount(owner)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
