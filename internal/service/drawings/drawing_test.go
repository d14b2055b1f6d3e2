package drawings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/domain/models"
)

func TestCreateDrawing(t *testing.T) {
	ctx := context.Background()

	t.Run("create at root with content", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)

		drawing, err := svc.CreateDrawing(ctx, testOwner, &models.CreateDrawingRequest{
			Name:    "Sketch",
			Content: json.RawMessage(`{"shapes":[]}`),
		})
		if err != nil {
			t.Fatalf("CreateDrawing() unexpected error: %v", err)
		}
		if drawing.FolderID != nil {
			t.Errorf("folder = %v, want root", *drawing.FolderID)
		}
		if string(drawing.Content) != `{"shapes":[]}` {
			t.Errorf("content = %s, want original payload", drawing.Content)
		}
	})

	t.Run("create inside folder", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		f := store.addFolder(testOwner, nil, "Clients")

		drawing, err := svc.CreateDrawing(ctx, testOwner, &models.CreateDrawingRequest{
			Name:     "Logo",
			FolderID: &f.ID,
		})
		if err != nil {
			t.Fatalf("CreateDrawing() unexpected error: %v", err)
		}
		if drawing.FolderID == nil || *drawing.FolderID != f.ID {
			t.Errorf("folder = %v, want %s", drawing.FolderID, f.ID)
		}
	})

	t.Run("folder owned by someone else", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		f := store.addFolder(otherOwner, nil, "Theirs")

		_, err := svc.CreateDrawing(ctx, testOwner, &models.CreateDrawingRequest{
			Name:     "Sneaky",
			FolderID: &f.ID,
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("foreign folder error = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)

		_, err := svc.CreateDrawing(ctx, testOwner, &models.CreateDrawingRequest{Name: " "})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("empty name error = %v, want ErrValidation", err)
		}
	})

	t.Run("content too large", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)

		huge := `"` + strings.Repeat("x", config.MaxDrawingContentBytes) + `"`
		_, err := svc.CreateDrawing(ctx, testOwner, &models.CreateDrawingRequest{
			Name:    "Big",
			Content: json.RawMessage(huge),
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("oversized content error = %v, want ErrValidation", err)
		}
	})
}

func TestUpdateDrawing(t *testing.T) {
	ctx := context.Background()

	t.Run("rename only leaves folder and content alone", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		f := store.addFolder(testOwner, nil, "Home")
		d := store.addDrawing(testOwner, &f.ID, "old")
		store.drawings[d.ID].Content = json.RawMessage(`{"v":1}`)

		updated, err := svc.UpdateDrawing(ctx, testOwner, d.ID, &models.UpdateDrawingRequest{
			Name: strPtr("new"),
		})
		if err != nil {
			t.Fatalf("UpdateDrawing() unexpected error: %v", err)
		}
		if updated.Name != "new" {
			t.Errorf("name = %q, want %q", updated.Name, "new")
		}
		if updated.FolderID == nil || *updated.FolderID != f.ID {
			t.Error("rename changed the folder")
		}
		if string(store.drawings[d.ID].Content) != `{"v":1}` {
			t.Error("rename changed the content")
		}
	})

	t.Run("save content bumps payload", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		d := store.addDrawing(testOwner, nil, "canvas")

		_, err := svc.UpdateDrawing(ctx, testOwner, d.ID, &models.UpdateDrawingRequest{
			Content: json.RawMessage(`{"v":2}`),
		})
		if err != nil {
			t.Fatalf("UpdateDrawing() unexpected error: %v", err)
		}
		if string(store.drawings[d.ID].Content) != `{"v":2}` {
			t.Errorf("content = %s, want {\"v\":2}", store.drawings[d.ID].Content)
		}
	})

	t.Run("move to root via present null", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		f := store.addFolder(testOwner, nil, "Home")
		d := store.addDrawing(testOwner, &f.ID, "canvas")

		updated, err := svc.UpdateDrawing(ctx, testOwner, d.ID, &models.UpdateDrawingRequest{
			FolderID: models.OptionalParent{Present: true, Value: nil},
		})
		if err != nil {
			t.Fatalf("UpdateDrawing() unexpected error: %v", err)
		}
		if updated.FolderID != nil {
			t.Errorf("folder = %v, want root", *updated.FolderID)
		}
	})

	t.Run("absent folder field does not move", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		f := store.addFolder(testOwner, nil, "Home")
		d := store.addDrawing(testOwner, &f.ID, "canvas")

		updated, err := svc.UpdateDrawing(ctx, testOwner, d.ID, &models.UpdateDrawingRequest{
			Name: strPtr("renamed"),
		})
		if err != nil {
			t.Fatalf("UpdateDrawing() unexpected error: %v", err)
		}
		if updated.FolderID == nil || *updated.FolderID != f.ID {
			t.Error("absent folder_id still moved the drawing")
		}
	})

	t.Run("no fields", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		d := store.addDrawing(testOwner, nil, "canvas")

		_, err := svc.UpdateDrawing(ctx, testOwner, d.ID, &models.UpdateDrawingRequest{})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("empty update error = %v, want ErrValidation", err)
		}
	})
}

func TestMoveDrawing(t *testing.T) {
	ctx := context.Background()

	t.Run("into folder and back to root", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		f := store.addFolder(testOwner, nil, "Home")
		d := store.addDrawing(testOwner, nil, "canvas")

		moved, err := svc.MoveDrawing(ctx, testOwner, d.ID, &f.ID)
		if err != nil {
			t.Fatalf("MoveDrawing() unexpected error: %v", err)
		}
		if moved.FolderID == nil || *moved.FolderID != f.ID {
			t.Errorf("folder = %v, want %s", moved.FolderID, f.ID)
		}

		moved, err = svc.MoveDrawing(ctx, testOwner, d.ID, nil)
		if err != nil {
			t.Fatalf("MoveDrawing() unexpected error: %v", err)
		}
		if moved.FolderID != nil {
			t.Errorf("folder = %v, want root", *moved.FolderID)
		}
	})

	t.Run("target folder not owned", func(t *testing.T) {
		store := newFakeStore()
		_, svc := newTestServices(store)
		f := store.addFolder(otherOwner, nil, "Theirs")
		d := store.addDrawing(testOwner, nil, "canvas")

		_, err := svc.MoveDrawing(ctx, testOwner, d.ID, &f.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("foreign move error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteDrawing(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	_, svc := newTestServices(store)
	d := store.addDrawing(testOwner, nil, "gone")

	if err := svc.DeleteDrawing(ctx, testOwner, d.ID); err != nil {
		t.Fatalf("DeleteDrawing() unexpected error: %v", err)
	}
	if _, ok := store.drawings[d.ID]; ok {
		t.Error("drawing still present after delete")
	}
	if err := svc.DeleteDrawing(ctx, testOwner, d.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete error = %v, want ErrNotFound", err)
	}
}
