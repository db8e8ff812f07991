package products_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"RecordStore/internal/products"
)

func newTestStore(t *testing.T) (*products.FileStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	return products.NewFileStore(path, nil), path
}

func mustCreate(t *testing.T, s *products.FileStore, np products.NewProduct) products.Product {
	t.Helper()

	p, err := s.Create(context.Background(), np)
	if err != nil {
		t.Fatalf("create %s: %v", np.Name, err)
	}
	return p
}

func TestCreateAndFind(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := mustCreate(t, s, products.NewProduct{
		Name:     "Keyboard",
		Price:    49.90,
		Quantity: 12,
		Image:    "keyboard.png",
	})
	if p.ID == "" {
		t.Fatal("empty id")
	}

	got, ok, err := s.FindOne(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("find after create: ok=%v err=%v", ok, err)
	}
	if got != p {
		t.Fatalf("got %+v want %+v", got, p)
	}
}

func TestFindAllSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s, products.NewProduct{Name: "Keyboard", Price: 49.90, Quantity: 1, Image: "k.png"})
	mustCreate(t, s, products.NewProduct{Name: "Mouse", Price: 19.90, Quantity: 2, Image: "m.png"})

	all, err := s.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d products, want 2", len(all))
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := mustCreate(t, s, products.NewProduct{Name: "Keyboard", Price: 49.90, Quantity: 12, Image: "k.png"})

	price := 39.90
	got, ok, err := s.Update(ctx, p.ID, products.Patch{Price: &price})
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	if got.Price != 39.90 {
		t.Fatalf("price %v", got.Price)
	}
	if got.Name != "Keyboard" || got.Quantity != 12 || got.Image != "k.png" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.ID != p.ID {
		t.Fatalf("id changed: %q", got.ID)
	}
}

func TestUpdateMissing(t *testing.T) {
	s, _ := newTestStore(t)

	name := "x"
	_, ok, err := s.Update(context.Background(), "no-such-id", products.Patch{Name: &name})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ok {
		t.Fatal("update of missing id reported success")
	}
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := mustCreate(t, s, products.NewProduct{Name: "Keyboard", Price: 49.90, Quantity: 1, Image: "k.png"})

	ok, err := s.Remove(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("remove: ok=%v err=%v", ok, err)
	}
	if _, found, _ := s.FindOne(ctx, p.ID); found {
		t.Fatal("record survives removal")
	}

	if ok, _ := s.Remove(ctx, p.ID); ok {
		t.Fatal("second remove reported success")
	}
}

func TestMutationsSurviveFlushFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	s := products.NewFileStore(filepath.Join(dir, "products.json"), nil)
	ctx := context.Background()

	p := mustCreate(t, s, products.NewProduct{Name: "Keyboard", Price: 49.90, Quantity: 1, Image: "k.png"})

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	price := 39.90
	got, ok, err := s.Update(ctx, p.ID, products.Patch{Price: &price})
	if err != nil || !ok {
		t.Fatalf("update with failing flush: ok=%v err=%v", ok, err)
	}
	if got.Price != 39.90 {
		t.Fatalf("price %v", got.Price)
	}

	found, ok, err := s.FindOne(ctx, p.ID)
	if err != nil || !ok || found.Price != 39.90 {
		t.Fatalf("memory not authoritative: ok=%v err=%v got %+v", ok, err, found)
	}
}

func TestReloadReproducesCollection(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, products.NewProduct{Name: "Keyboard", Price: 49.90, Quantity: 12, Image: "k.png"})
	b := mustCreate(t, s, products.NewProduct{Name: "Mouse", Price: 19.90, Quantity: 3, Image: "m.png"})

	reloaded := products.NewFileStore(path, nil)

	for _, want := range []products.Product{a, b} {
		got, ok, err := reloaded.FindOne(ctx, want.ID)
		if err != nil || !ok {
			t.Fatalf("reload lost %s: ok=%v err=%v", want.Name, ok, err)
		}
		if got != want {
			t.Fatalf("got %+v want %+v", got, want)
		}
	}
}
