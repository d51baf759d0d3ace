package stores

import (
	"testing"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
)

func TestContentStore_PageRoundTrip(t *testing.T) {
	// WHAT: set/get by id and by slug, invalidation clears both indexes.
	cs := NewContentStore()
	page := &content.PageNode{ID: "p1", Title: "Home", Slug: "home"}

	if _, ok := cs.GetPage("p1"); ok {
		t.Fatal("empty store should miss")
	}
	cs.SetPage(page)
	got, ok := cs.GetPage("p1")
	if !ok || got.Slug != "home" {
		t.Fatalf("unexpected page: %+v ok=%v", got, ok)
	}
	id, ok := cs.GetPageIDBySlug("home")
	if !ok || id != "p1" {
		t.Fatalf("slug index miss: %q ok=%v", id, ok)
	}

	cs.InvalidatePage("p1")
	if _, ok := cs.GetPage("p1"); ok {
		t.Fatal("invalidated page still cached")
	}
	if _, ok := cs.GetPageIDBySlug("home"); ok {
		t.Fatal("slug index survived invalidation")
	}
}

func TestContentStore_IDListLifecycle(t *testing.T) {
	// WHAT: AddPageID is a no-op before the full list is loaded; after
	// SetAllPageIDs adds are deduplicated and removes shrink the list.
	// WHY: a partial id list would make FindAll silently drop rows.
	cs := NewContentStore()

	cs.AddPageID("p1")
	if _, ok := cs.GetAllPageIDs(); ok {
		t.Fatal("id list should not exist before SetAllPageIDs")
	}

	cs.SetAllPageIDs([]string{"p1", "p2"})
	cs.AddPageID("p2") // duplicate
	cs.AddPageID("p3")
	ids, ok := cs.GetAllPageIDs()
	if !ok || len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v ok=%v", ids, ok)
	}

	cs.RemovePageID("p2")
	ids, _ = cs.GetAllPageIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids after removal, got %v", ids)
	}
}

func TestContentStore_MemberEmailIndex(t *testing.T) {
	cs := NewContentStore()
	cs.SetMember(&content.MemberNode{ID: "m1", Email: "a@b.test"})
	id, ok := cs.GetMemberIDByEmail("a@b.test")
	if !ok || id != "m1" {
		t.Fatalf("email index miss: %q ok=%v", id, ok)
	}
	cs.InvalidateMember("m1")
	if _, ok := cs.GetMemberIDByEmail("a@b.test"); ok {
		t.Fatal("email index survived invalidation")
	}
}

func TestContentStore_InvalidateContentCache(t *testing.T) {
	cs := NewContentStore()
	cs.SetPage(&content.PageNode{ID: "p1", Slug: "home"})
	cs.SetFile(&content.ImageFileNode{ID: "f1", Filename: "a.png"})
	cs.SetAllFileIDs([]string{"f1"})

	cs.InvalidateContentCache()

	if _, ok := cs.GetPage("p1"); ok {
		t.Fatal("page survived full invalidation")
	}
	if _, ok := cs.GetFile("f1"); ok {
		t.Fatal("file survived full invalidation")
	}
	if _, ok := cs.GetAllFileIDs(); ok {
		t.Fatal("file id list survived full invalidation")
	}
}
