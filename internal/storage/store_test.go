package storage

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/larvasim/internal/export"
	"github.com/san-kum/larvasim/internal/sim"
	"github.com/san-kum/larvasim/internal/vec"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testDocument() export.Document {
	result := &sim.Result{
		Frames: []sim.Frame{{
			Time:         0.1,
			Positions:    []vec.Vec3{vec.New(0, 0, 0.1)},
			CenterOfMass: vec.New(0, 0, 0.1),
		}},
		Metrics:    map[string]float64{"displacement": 0.2},
		StepsTaken: 100,
		FinalTime:  0.1,
	}
	doc := export.NewDocument("", "crawl", "crawling", 0.001, 5, result)
	doc.Timestamp = time.Unix(1700000000, 0).UTC()
	return doc
}

func TestStore_RequiresInit(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.SaveRun(context.Background(), testDocument(), 0); err == nil {
		t.Error("expected error before Init, got nil")
	}
}

func TestSaveRun_GeneratesIDAndIndexes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, testDocument(), 0.2)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated run ID")
	}

	rec, ok, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("saved run not found in index")
	}
	if rec.Preset != "crawl" || rec.Driver != "crawling" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Displacement != 0.2 {
		t.Errorf("expected displacement 0.2, got %f", rec.Displacement)
	}
}

func TestSaveRun_UpsertsSameID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	doc := testDocument()
	doc.RunID = "fixed-id"
	if _, err := s.SaveRun(ctx, doc, 0.1); err != nil {
		t.Fatal(err)
	}
	doc.Steps = 200
	if _, err := s.SaveRun(ctx, doc, 0.3); err != nil {
		t.Fatal(err)
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(records))
	}
	if records[0].Steps != 200 {
		t.Errorf("expected updated steps 200, got %d", records[0].Steps)
	}
}

func TestLoadDocument_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, testDocument(), 0.2)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := s.LoadDocument(ctx, id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(doc.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(doc.Frames))
	}
	if doc.Frames[0].Positions[0][2] != 0.1 {
		t.Errorf("expected position z 0.1, got %f", doc.Frames[0].Positions[0][2])
	}

	if _, err := s.LoadDocument(ctx, "missing"); err == nil {
		t.Error("expected error for missing run, got nil")
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, testDocument(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, ok, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected run gone after delete")
	}

	// deleting a missing run is a no-op
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("unexpected error deleting missing run: %v", err)
	}
}
