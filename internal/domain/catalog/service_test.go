// internal/domain/catalog/service_test.go
package catalog

import (
	"errors"
	"testing"
)

func TestResolveVariantFallsBackToProduct(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, newTestLogger())

	category := Category{Name: "Cameras", Slug: "cameras", Path: "cameras", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	product := Product{SKU: "CAM-1", Name: "Dome Camera", Slug: "dome-camera", Price: 450000, Thumbnail: "cam.jpg", CategoryID: category.ID, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	resolved, err := s.ResolveVariant(product.ID)
	if err != nil {
		t.Fatalf("failed to resolve product as variant: %v", err)
	}
	if resolved.VariantID != product.ID || resolved.ProductID != product.ID {
		t.Errorf("resolved ids = {variant: %d, product: %d}, want both %d", resolved.VariantID, resolved.ProductID, product.ID)
	}
	if resolved.Price != 450000 {
		t.Errorf("price = %d, want 450000", resolved.Price)
	}
	if resolved.Title != "Dome Camera" {
		t.Errorf("title = %q, want %q", resolved.Title, "Dome Camera")
	}
}

func TestResolveVariantPriceOverride(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, newTestLogger())

	category := Category{Name: "Cameras", Slug: "cameras", Path: "cameras", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	product := Product{SKU: "CAM-2", Name: "Bullet Camera", Slug: "bullet-camera", Price: 300000, CategoryID: category.ID, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	withPrice := ProductVariant{ProductID: product.ID, SKU: "CAM-2-4MM", Name: "4mm", Price: 320000, IsActive: true}
	inherits := ProductVariant{ProductID: product.ID, SKU: "CAM-2-6MM", Name: "6mm", IsActive: true}
	if err := db.Create(&withPrice).Error; err != nil {
		t.Fatalf("failed to create variant: %v", err)
	}
	if err := db.Create(&inherits).Error; err != nil {
		t.Fatalf("failed to create variant: %v", err)
	}

	resolved, err := s.ResolveVariant(withPrice.ID)
	if err != nil {
		t.Fatalf("failed to resolve variant: %v", err)
	}
	if resolved.Price != 320000 {
		t.Errorf("override price = %d, want 320000", resolved.Price)
	}
	if resolved.ProductID != product.ID {
		t.Errorf("product id = %d, want %d", resolved.ProductID, product.ID)
	}

	resolved, err = s.ResolveVariant(inherits.ID)
	if err != nil {
		t.Fatalf("failed to resolve variant: %v", err)
	}
	if resolved.Price != 300000 {
		t.Errorf("inherited price = %d, want 300000", resolved.Price)
	}
}

func TestResolveVariantNotFound(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, newTestLogger())

	if _, err := s.ResolveVariant(12345); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("missing variant: err = %v, want ErrProductNotFound", err)
	}
}

func TestGetProductsIncludesCategorySubtree(t *testing.T) {
	db := newTestDB(t)
	s := NewService(db, newTestLogger())

	parent := Category{Name: "Датчики дыма", Slug: "datchiki-dyma", Path: "datchiki-dyma", IsActive: true}
	if err := db.Create(&parent).Error; err != nil {
		t.Fatalf("failed to create parent: %v", err)
	}
	child := Category{Name: "Адресные", Slug: "adresnye", ParentID: &parent.ID, Level: 1, Path: "datchiki-dyma/adresnye", IsActive: true}
	if err := db.Create(&child).Error; err != nil {
		t.Fatalf("failed to create child: %v", err)
	}
	other := Category{Name: "Other", Slug: "other", Path: "other", IsActive: true}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("failed to create other: %v", err)
	}

	products := []Product{
		{SKU: "P-1", Name: "In parent", Slug: "in-parent", Price: 100, CategoryID: parent.ID, IsActive: true},
		{SKU: "P-2", Name: "In child", Slug: "in-child", Price: 200, CategoryID: child.ID, IsActive: true},
		{SKU: "P-3", Name: "Elsewhere", Slug: "elsewhere", Price: 300, CategoryID: other.ID, IsActive: true},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("failed to create product: %v", err)
		}
	}

	page, err := s.GetProducts(&ProductListRequest{CategoryID: parent.ID})
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(page.Products) != 2 {
		t.Fatalf("product count = %d, want 2 (parent + child categories)", len(page.Products))
	}
	for _, p := range page.Products {
		if p.SKU == "P-3" {
			t.Error("product outside subtree included in results")
		}
	}
	if page.Pagination.Total != 2 {
		t.Errorf("total = %d, want 2", page.Pagination.Total)
	}
}
