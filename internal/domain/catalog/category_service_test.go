// internal/domain/catalog/category_service_test.go
package catalog

import (
	"errors"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Category{}, &Brand{}, &Product{}, &ProductVariant{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newCategoryService(t *testing.T) (*CategoryService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewCategoryService(db, newTestLogger()), db
}

func mustCreate(t *testing.T, s *CategoryService, req *CategoryCreateRequest) *Category {
	t.Helper()
	category, err := s.Create(req)
	if err != nil {
		t.Fatalf("failed to create category %q: %v", req.Name, err)
	}
	return category
}

func TestCreateDerivesSlugLevelAndPath(t *testing.T) {
	s, _ := newCategoryService(t)

	parent := mustCreate(t, s, &CategoryCreateRequest{Name: "Датчики дыма", IsActive: true})
	if parent.Slug != "datchiki-dyma" {
		t.Errorf("parent slug = %q, want %q", parent.Slug, "datchiki-dyma")
	}
	if parent.Level != 0 {
		t.Errorf("parent level = %d, want 0", parent.Level)
	}
	if parent.Path != "datchiki-dyma" {
		t.Errorf("parent path = %q, want %q", parent.Path, "datchiki-dyma")
	}

	child := mustCreate(t, s, &CategoryCreateRequest{Name: "Адресные", ParentID: &parent.ID, IsActive: true})
	if child.Level != 1 {
		t.Errorf("child level = %d, want 1", child.Level)
	}
	if child.Path != "datchiki-dyma/adresnye" {
		t.Errorf("child path = %q, want %q", child.Path, "datchiki-dyma/adresnye")
	}
}

func TestRenameParentSlugCascadesToChild(t *testing.T) {
	s, _ := newCategoryService(t)

	parent := mustCreate(t, s, &CategoryCreateRequest{Name: "Датчики дыма", IsActive: true})
	child := mustCreate(t, s, &CategoryCreateRequest{Name: "Адресные", ParentID: &parent.ID, IsActive: true})

	newSlug := "dym-datchiki"
	if _, err := s.Update(parent.ID, &CategoryUpdateRequest{Slug: &newSlug}); err != nil {
		t.Fatalf("failed to rename parent slug: %v", err)
	}

	reloaded, err := s.Get(child.ID)
	if err != nil {
		t.Fatalf("failed to reload child: %v", err)
	}
	if reloaded.Path != "dym-datchiki/adresnye" {
		t.Errorf("child path after rename = %q, want %q", reloaded.Path, "dym-datchiki/adresnye")
	}
	if reloaded.Level != 1 {
		t.Errorf("child level after rename = %d, want 1", reloaded.Level)
	}
}

func TestCascadeReachesEveryDescendant(t *testing.T) {
	s, _ := newCategoryService(t)

	a := mustCreate(t, s, &CategoryCreateRequest{Name: "A", IsActive: true})
	b := mustCreate(t, s, &CategoryCreateRequest{Name: "B", ParentID: &a.ID, IsActive: true})
	c := mustCreate(t, s, &CategoryCreateRequest{Name: "C", ParentID: &b.ID, IsActive: true})
	d := mustCreate(t, s, &CategoryCreateRequest{Name: "D", ParentID: &c.ID, IsActive: true})

	renamed := "alpha"
	if _, err := s.Update(a.ID, &CategoryUpdateRequest{Slug: &renamed}); err != nil {
		t.Fatalf("failed to rename root: %v", err)
	}

	wantPaths := map[uint]string{
		a.ID: "alpha",
		b.ID: "alpha/b",
		c.ID: "alpha/b/c",
		d.ID: "alpha/b/c/d",
	}
	wantLevels := map[uint]int{a.ID: 0, b.ID: 1, c.ID: 2, d.ID: 3}

	for id, wantPath := range wantPaths {
		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("failed to reload category %d: %v", id, err)
		}
		if got.Path != wantPath {
			t.Errorf("category %d path = %q, want %q", id, got.Path, wantPath)
		}
		if got.Level != wantLevels[id] {
			t.Errorf("category %d level = %d, want %d", id, got.Level, wantLevels[id])
		}
	}
}

func TestReparentRecomputesSubtree(t *testing.T) {
	s, _ := newCategoryService(t)

	a := mustCreate(t, s, &CategoryCreateRequest{Name: "A", IsActive: true})
	b := mustCreate(t, s, &CategoryCreateRequest{Name: "B", ParentID: &a.ID, IsActive: true})
	c := mustCreate(t, s, &CategoryCreateRequest{Name: "C", ParentID: &b.ID, IsActive: true})
	other := mustCreate(t, s, &CategoryCreateRequest{Name: "Other", IsActive: true})

	// Move B (and its subtree) under Other
	if _, err := s.Update(b.ID, &CategoryUpdateRequest{ParentID: &other.ID}); err != nil {
		t.Fatalf("failed to reparent: %v", err)
	}

	gotB, _ := s.Get(b.ID)
	if gotB.Path != "other/b" || gotB.Level != 1 {
		t.Errorf("b = {path: %q, level: %d}, want {other/b, 1}", gotB.Path, gotB.Level)
	}

	gotC, _ := s.Get(c.ID)
	if gotC.Path != "other/b/c" || gotC.Level != 2 {
		t.Errorf("c = {path: %q, level: %d}, want {other/b/c, 2}", gotC.Path, gotC.Level)
	}
}

func TestMakeRootPromotesSubtree(t *testing.T) {
	s, _ := newCategoryService(t)

	a := mustCreate(t, s, &CategoryCreateRequest{Name: "A", IsActive: true})
	b := mustCreate(t, s, &CategoryCreateRequest{Name: "B", ParentID: &a.ID, IsActive: true})
	c := mustCreate(t, s, &CategoryCreateRequest{Name: "C", ParentID: &b.ID, IsActive: true})

	updated, err := s.Update(b.ID, &CategoryUpdateRequest{MakeRoot: true})
	if err != nil {
		t.Fatalf("failed to make root: %v", err)
	}
	if updated.ParentID != nil {
		t.Errorf("parent_id = %v, want nil", *updated.ParentID)
	}
	if updated.Level != 0 || updated.Path != "b" {
		t.Errorf("b = {path: %q, level: %d}, want {b, 0}", updated.Path, updated.Level)
	}

	gotC, _ := s.Get(c.ID)
	if gotC.Path != "b/c" || gotC.Level != 1 {
		t.Errorf("c = {path: %q, level: %d}, want {b/c, 1}", gotC.Path, gotC.Level)
	}
}

func TestDeleteGuards(t *testing.T) {
	s, db := newCategoryService(t)

	parent := mustCreate(t, s, &CategoryCreateRequest{Name: "Parent", IsActive: true})
	child := mustCreate(t, s, &CategoryCreateRequest{Name: "Child", ParentID: &parent.ID, IsActive: true})

	if err := s.Delete(parent.ID); !errors.Is(err, ErrHasChildren) {
		t.Errorf("delete parent with child: err = %v, want ErrHasChildren", err)
	}

	// Still queryable after the failed delete
	if _, err := s.Get(parent.ID); err != nil {
		t.Errorf("parent not queryable after failed delete: %v", err)
	}

	product := Product{SKU: "SKU-1", Name: "Camera", Slug: "camera", Price: 10000, CategoryID: child.ID, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	if err := s.Delete(child.ID); !errors.Is(err, ErrHasProducts) {
		t.Errorf("delete category with product: err = %v, want ErrHasProducts", err)
	}

	if err := db.Delete(&product).Error; err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}
	if err := s.Delete(child.ID); err != nil {
		t.Errorf("delete leaf: %v", err)
	}
	if err := s.Delete(parent.ID); err != nil {
		t.Errorf("delete emptied parent: %v", err)
	}

	if err := s.Delete(9999); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("delete missing: err = %v, want ErrCategoryNotFound", err)
	}
}

func TestSiblingSlugUniqueness(t *testing.T) {
	s, _ := newCategoryService(t)

	a := mustCreate(t, s, &CategoryCreateRequest{Name: "A", IsActive: true})
	b := mustCreate(t, s, &CategoryCreateRequest{Name: "B", IsActive: true})

	mustCreate(t, s, &CategoryCreateRequest{Name: "Cameras", ParentID: &a.ID, IsActive: true})

	// Same slug under another parent is fine
	mustCreate(t, s, &CategoryCreateRequest{Name: "Cameras", ParentID: &b.ID, IsActive: true})

	// Same slug under the same parent is not
	if _, err := s.Create(&CategoryCreateRequest{Name: "Cameras", ParentID: &a.ID, IsActive: true}); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("duplicate sibling slug: err = %v, want ErrSlugTaken", err)
	}

	// Same rule at root level
	if _, err := s.Create(&CategoryCreateRequest{Name: "A", IsActive: true}); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("duplicate root slug: err = %v, want ErrSlugTaken", err)
	}
}

func TestCircularParentRejected(t *testing.T) {
	s, _ := newCategoryService(t)

	a := mustCreate(t, s, &CategoryCreateRequest{Name: "A", IsActive: true})
	b := mustCreate(t, s, &CategoryCreateRequest{Name: "B", ParentID: &a.ID, IsActive: true})
	c := mustCreate(t, s, &CategoryCreateRequest{Name: "C", ParentID: &b.ID, IsActive: true})

	if _, err := s.Update(a.ID, &CategoryUpdateRequest{ParentID: &a.ID}); !errors.Is(err, ErrCircularParent) {
		t.Errorf("self parent: err = %v, want ErrCircularParent", err)
	}

	if _, err := s.Update(a.ID, &CategoryUpdateRequest{ParentID: &c.ID}); !errors.Is(err, ErrCircularParent) {
		t.Errorf("descendant parent: err = %v, want ErrCircularParent", err)
	}
}

func TestUpdateParentNotFound(t *testing.T) {
	s, _ := newCategoryService(t)

	a := mustCreate(t, s, &CategoryCreateRequest{Name: "A", IsActive: true})

	missing := uint(9999)
	if _, err := s.Update(a.ID, &CategoryUpdateRequest{ParentID: &missing}); !errors.Is(err, ErrParentNotFound) {
		t.Errorf("missing parent: err = %v, want ErrParentNotFound", err)
	}
}

func TestListTreeAndOrphanPromotion(t *testing.T) {
	s, db := newCategoryService(t)

	a := mustCreate(t, s, &CategoryCreateRequest{Name: "A", SortOrder: 1, IsActive: true})
	mustCreate(t, s, &CategoryCreateRequest{Name: "B", ParentID: &a.ID, IsActive: true})
	orphan := mustCreate(t, s, &CategoryCreateRequest{Name: "Orphan", IsActive: true})

	// Point the orphan at a parent that is not part of the result set
	if err := db.Model(&Category{}).Where("id = ?", orphan.ID).Update("parent_id", 9999).Error; err != nil {
		t.Fatalf("failed to orphan category: %v", err)
	}

	_, tree, err := s.List(&CategoryListRequest{Limit: 50})
	if err != nil {
		t.Fatalf("failed to list tree: %v", err)
	}

	if len(tree) != 2 {
		t.Fatalf("root count = %d, want 2 (orphan promoted)", len(tree))
	}

	var foundOrphan, foundA bool
	for _, node := range tree {
		switch node.ID {
		case orphan.ID:
			foundOrphan = true
		case a.ID:
			foundA = true
			if len(node.Children) != 1 {
				t.Errorf("a children = %d, want 1", len(node.Children))
			}
		}
	}
	if !foundOrphan || !foundA {
		t.Errorf("tree roots missing expected nodes: orphan=%v a=%v", foundOrphan, foundA)
	}
}

func TestListFlatPagination(t *testing.T) {
	s, _ := newCategoryService(t)

	for _, name := range []string{"One", "Two", "Three"} {
		mustCreate(t, s, &CategoryCreateRequest{Name: name, IsActive: true})
	}

	page, _, err := s.List(&CategoryListRequest{Flat: true, Limit: 2})
	if err != nil {
		t.Fatalf("failed to list flat: %v", err)
	}
	if len(page.Categories) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Categories))
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want 3", page.Total)
	}
	if !page.HasMore {
		t.Error("has_more = false, want true")
	}
}

func TestGetByPath(t *testing.T) {
	s, _ := newCategoryService(t)

	parent := mustCreate(t, s, &CategoryCreateRequest{Name: "Датчики дыма", IsActive: true})
	mustCreate(t, s, &CategoryCreateRequest{Name: "Адресные", ParentID: &parent.ID, IsActive: true})
	hidden := mustCreate(t, s, &CategoryCreateRequest{Name: "Hidden", IsActive: false})

	got, err := s.GetByPath("datchiki-dyma/adresnye")
	if err != nil {
		t.Fatalf("failed to get by path: %v", err)
	}
	if got.Slug != "adresnye" {
		t.Errorf("slug = %q, want %q", got.Slug, "adresnye")
	}

	if _, err := s.GetByPath(hidden.Path); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("inactive category by path: err = %v, want ErrCategoryNotFound", err)
	}
}
