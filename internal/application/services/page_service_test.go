package services

import (
	"fmt"
	"testing"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/content"
)

// fakePageRepo is an in-memory PageRepository for exercising the page
// service without a database.
type fakePageRepo struct {
	pages map[string]*content.PageNode
}

func newFakePageRepo() *fakePageRepo {
	return &fakePageRepo{pages: make(map[string]*content.PageNode)}
}

func (r *fakePageRepo) FindByID(id string) (*content.PageNode, error) {
	return r.pages[id], nil
}

func (r *fakePageRepo) FindBySlug(slug string) (*content.PageNode, error) {
	for _, p := range r.pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePageRepo) FindByIDs(ids []string) ([]*content.PageNode, error) {
	var out []*content.PageNode
	for _, id := range ids {
		if p, ok := r.pages[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePageRepo) FindAll() ([]*content.PageNode, error) {
	var out []*content.PageNode
	for _, p := range r.pages {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePageRepo) Store(page *content.PageNode) error {
	if _, exists := r.pages[page.ID]; exists {
		return fmt.Errorf("page %s already exists", page.ID)
	}
	r.pages[page.ID] = page
	return nil
}

func (r *fakePageRepo) Update(page *content.PageNode) error {
	if _, exists := r.pages[page.ID]; !exists {
		return fmt.Errorf("page %s not found", page.ID)
	}
	r.pages[page.ID] = page
	return nil
}

func (r *fakePageRepo) Delete(id string) error {
	delete(r.pages, id)
	return nil
}

func TestPageService_CreateDefaults(t *testing.T) {
	// WHAT: Create assigns an id, draft status and timestamps when absent.
	svc := NewPageService(newFakePageRepo())
	page := &content.PageNode{Title: "Home", Slug: "home"}
	if err := svc.Create(page); err != nil {
		t.Fatalf("create: %v", err)
	}
	if page.ID == "" {
		t.Fatal("expected a generated id")
	}
	if page.Status != content.StatusDraft {
		t.Fatalf("expected draft status, got %q", page.Status)
	}
	if page.Changed == nil || page.Created.IsZero() {
		t.Fatal("expected timestamps to be stamped")
	}
}

func TestPageService_CreateValidation(t *testing.T) {
	svc := NewPageService(newFakePageRepo())
	if err := svc.Create(&content.PageNode{Slug: "home"}); err == nil {
		t.Fatal("missing title should fail")
	}
	if err := svc.Create(&content.PageNode{Title: "Home"}); err == nil {
		t.Fatal("missing slug should fail")
	}
}

func TestPageService_PublishArchive(t *testing.T) {
	// WHAT: status transitions draft -> published -> archived stamp Changed.
	svc := NewPageService(newFakePageRepo())
	page := &content.PageNode{Title: "Home", Slug: "home"}
	if err := svc.Create(page); err != nil {
		t.Fatalf("create: %v", err)
	}

	published, err := svc.Publish(page.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != content.StatusPublished {
		t.Fatalf("expected published, got %q", published.Status)
	}

	archived, err := svc.Archive(page.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != content.StatusArchived {
		t.Fatalf("expected archived, got %q", archived.Status)
	}
}

func TestPageService_DuplicateDefaultsSlug(t *testing.T) {
	// WHAT: a duplicate without an explicit slug gets the -copy suffix and
	// always starts as a draft, even when the source is published.
	repo := newFakePageRepo()
	svc := NewPageService(repo)
	source := &content.PageNode{Title: "Home", Slug: "home", Status: content.StatusPublished, Markup: "<p>hi</p>"}
	if err := svc.Create(source); err != nil {
		t.Fatalf("create: %v", err)
	}

	clone, err := svc.Duplicate(source.ID, "", "")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if clone.Slug != "home-copy" {
		t.Fatalf("expected slug home-copy, got %q", clone.Slug)
	}
	if clone.Status != content.StatusDraft {
		t.Fatalf("clone should be a draft, got %q", clone.Status)
	}
	if clone.ID == source.ID {
		t.Fatal("clone must get its own id")
	}
	if clone.Markup != source.Markup {
		t.Fatal("clone should carry the source content")
	}
}

func TestPageService_ArtifactRoundTrip(t *testing.T) {
	// WHAT: SaveArtifact persists the structural encoding inside the options
	// payload and FetchArtifact recovers it with the structured kind.
	// WHY: losing the structural copy downgrades every later load to the
	// lossy markup path.
	svc := NewPageService(newFakePageRepo())
	page := &content.PageNode{Title: "Home", Slug: "home"}
	if err := svc.Create(page); err != nil {
		t.Fatalf("create: %v", err)
	}

	payload := &SavePayload{
		Artifact: composer.Artifact{
			Markup:     "<section class=\"sf-a\"></section>",
			Stylesheet: ".sf-a { color: red }",
			StructuredTree: &composer.StructuredTree{
				Components: []*composer.ComponentNode{{NodeID: "sf-a", NodeType: "section"}},
			},
			EncodingKind: composer.EncodingStructured,
		},
		Meta: PayloadMeta{Status: content.StatusPublished, Weight: 3},
	}
	if _, err := svc.SaveArtifact(page.ID, payload); err != nil {
		t.Fatalf("save artifact: %v", err)
	}

	artifact, err := svc.FetchArtifact(page.ID)
	if err != nil {
		t.Fatalf("fetch artifact: %v", err)
	}
	if artifact.EncodingKind != composer.EncodingStructured {
		t.Fatalf("expected structured encoding, got %q", artifact.EncodingKind)
	}
	if artifact.StructuredTree == nil || len(artifact.StructuredTree.Components) != 1 {
		t.Fatalf("structural copy lost: %+v", artifact.StructuredTree)
	}
	if artifact.Markup != payload.Artifact.Markup {
		t.Fatal("markup encoding lost")
	}

	stored, err := svc.GetByID(page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != content.StatusPublished || stored.Weight != 3 {
		t.Fatalf("meta not applied: status=%q weight=%d", stored.Status, stored.Weight)
	}
}

func TestPageService_SaveArtifactMintsNewPage(t *testing.T) {
	// WHAT: saving with no id creates a draft row under a fresh id, taking
	// title and slug from the payload metadata.
	// WHY: the first save of a brand-new draft happens before any create
	// call; the save itself must mint the page.
	svc := NewPageService(newFakePageRepo())

	payload := &SavePayload{
		Artifact: composer.Artifact{Markup: "<p>new</p>", EncodingKind: composer.EncodingMarkupOnly},
		Meta:     PayloadMeta{Title: "Fresh", Slug: "fresh"},
	}
	stored, err := svc.SaveArtifact("", payload)
	if err != nil {
		t.Fatalf("save artifact: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected a minted page id")
	}
	if stored.Status != content.StatusDraft {
		t.Fatalf("new page should start as draft, got %q", stored.Status)
	}
	if stored.Title != "Fresh" || stored.Slug != "fresh" {
		t.Fatalf("meta not applied: title=%q slug=%q", stored.Title, stored.Slug)
	}

	reloaded, err := svc.GetByID(stored.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded == nil || reloaded.Markup != "<p>new</p>" {
		t.Fatalf("minted page not persisted: %+v", reloaded)
	}
}

func TestPageService_SaveArtifactCreatesMissingRow(t *testing.T) {
	// WHAT: saving under an id with no row stores a new page under that id,
	// defaulting title and slug when the metadata omits them.
	svc := NewPageService(newFakePageRepo())

	payload := &SavePayload{
		Artifact: composer.Artifact{Markup: "<p>x</p>", EncodingKind: composer.EncodingMarkupOnly},
	}
	stored, err := svc.SaveArtifact("01ARZ3NDEKTSV4RRFFQ69G5FAV", payload)
	if err != nil {
		t.Fatalf("save artifact: %v", err)
	}
	if stored.ID != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Fatalf("id not preserved: %q", stored.ID)
	}
	if stored.Title == "" || stored.Slug == "" {
		t.Fatalf("expected defaulted title and slug, got title=%q slug=%q", stored.Title, stored.Slug)
	}
	if stored.Created.IsZero() || stored.Changed == nil {
		t.Fatal("expected timestamps on the created row")
	}
}

func TestPageService_FetchArtifactMarkupOnly(t *testing.T) {
	// WHAT: a page with no structural copy yields the markup-only kind.
	svc := NewPageService(newFakePageRepo())
	page := &content.PageNode{Title: "Home", Slug: "home", Markup: "<p>x</p>"}
	if err := svc.Create(page); err != nil {
		t.Fatalf("create: %v", err)
	}

	artifact, err := svc.FetchArtifact(page.ID)
	if err != nil {
		t.Fatalf("fetch artifact: %v", err)
	}
	if artifact.EncodingKind != composer.EncodingMarkupOnly {
		t.Fatalf("expected markup-only encoding, got %q", artifact.EncodingKind)
	}
	if artifact.StructuredTree != nil {
		t.Fatal("unexpected structural copy")
	}
}
