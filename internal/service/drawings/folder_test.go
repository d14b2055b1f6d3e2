package drawings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
)

const (
	testOwner  = "owner-1"
	otherOwner = "owner-2"
)

// fakeStore backs the in-memory repository fakes. Folder deletion mirrors
// the schema: child folders cascade, drawings in removed folders fall back
// to root.
type fakeStore struct {
	folders  map[string]*models.Folder
	drawings map[string]*models.Drawing
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders:  make(map[string]*models.Folder),
		drawings: make(map[string]*models.Drawing),
	}
}

func (s *fakeStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *fakeStore) addFolder(ownerID string, parentID *string, name string) *models.Folder {
	f := &models.Folder{
		ID:       s.id("fld"),
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
	}
	s.folders[f.ID] = f
	return f
}

func (s *fakeStore) addDrawing(ownerID string, folderID *string, name string) *models.Drawing {
	d := &models.Drawing{
		ID:       s.id("drw"),
		OwnerID:  ownerID,
		FolderID: folderID,
		Name:     name,
	}
	s.drawings[d.ID] = d
	return d
}

func (s *fakeStore) removeFolder(id string) {
	delete(s.folders, id)
	for _, d := range s.drawings {
		if d.FolderID != nil && *d.FolderID == id {
			d.FolderID = nil
		}
	}
	var children []string
	for cid, f := range s.folders {
		if f.ParentID != nil && *f.ParentID == id {
			children = append(children, cid)
		}
	}
	for _, cid := range children {
		s.removeFolder(cid)
	}
}

type fakeFolderRepo struct {
	store *fakeStore
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	folder.ID = r.store.id("fld")
	stored := *folder
	r.store.folders[folder.ID] = &stored
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	f, ok := r.store.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	out := *f
	return &out, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	f, ok := r.store.folders[folder.ID]
	if !ok || f.OwnerID != folder.OwnerID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	stored := *folder
	r.store.folders[folder.ID] = &stored
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, ownerID string) error {
	f, ok := r.store.folders[id]
	if !ok || f.OwnerID != ownerID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	r.store.removeFolder(id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.store.folders {
		if f.OwnerID != ownerID {
			continue
		}
		if parentID == nil && f.ParentID == nil {
			out = append(out, *f)
		} else if parentID != nil && f.ParentID != nil && *f.ParentID == *parentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.store.folders {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

type fakeDrawingRepo struct {
	store *fakeStore
}

func (r *fakeDrawingRepo) Create(ctx context.Context, drawing *models.Drawing) error {
	drawing.ID = r.store.id("drw")
	stored := *drawing
	r.store.drawings[drawing.ID] = &stored
	return nil
}

func (r *fakeDrawingRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Drawing, error) {
	d, ok := r.store.drawings[id]
	if !ok || d.OwnerID != ownerID {
		return nil, fmt.Errorf("drawing %s: %w", id, domain.ErrNotFound)
	}
	out := *d
	return &out, nil
}

func (r *fakeDrawingRepo) Update(ctx context.Context, drawing *models.Drawing) error {
	d, ok := r.store.drawings[drawing.ID]
	if !ok || d.OwnerID != drawing.OwnerID {
		return fmt.Errorf("drawing %s: %w", drawing.ID, domain.ErrNotFound)
	}
	stored := *drawing
	r.store.drawings[drawing.ID] = &stored
	return nil
}

func (r *fakeDrawingRepo) Delete(ctx context.Context, id, ownerID string) error {
	d, ok := r.store.drawings[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("drawing %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.drawings, id)
	return nil
}

func (r *fakeDrawingRepo) ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.Drawing, error) {
	var out []models.Drawing
	for _, d := range r.store.drawings {
		if d.OwnerID != ownerID {
			continue
		}
		if folderID == nil && d.FolderID == nil {
			out = append(out, *d)
		} else if folderID != nil && d.FolderID != nil && *d.FolderID == *folderID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDrawingRepo) GetAllMetadataByOwner(ctx context.Context, ownerID string) ([]models.Drawing, error) {
	var out []models.Drawing
	for _, d := range r.store.drawings {
		if d.OwnerID == ownerID {
			meta := *d
			meta.Content = nil
			out = append(out, meta)
		}
	}
	return out, nil
}

func (r *fakeDrawingRepo) ReparentByFolder(ctx context.Context, ownerID, fromFolderID string, toFolderID *string) error {
	for _, d := range r.store.drawings {
		if d.OwnerID == ownerID && d.FolderID != nil && *d.FolderID == fromFolderID {
			d.FolderID = toFolderID
		}
	}
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServices(store *fakeStore) (*folderService, *drawingService) {
	folderRepo := &fakeFolderRepo{store: store}
	drawingRepo := &fakeDrawingRepo{store: store}
	ownership := NewOwnership(folderRepo, drawingRepo)
	logger := testLogger()

	fs := NewFolderService(folderRepo, drawingRepo, ownership, &fakeTxManager{}, logger).(*folderService)
	ds := NewDrawingService(drawingRepo, ownership, logger).(*drawingService)
	return fs, ds
}

func strPtr(s string) *string {
	return &s
}

func TestCreateFolder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setup     func(store *fakeStore) *models.CreateFolderRequest
		wantErr   error
		wantName  string
		wantRootP bool
	}{
		{
			name: "create at root",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				return &models.CreateFolderRequest{Name: "Sketches"}
			},
			wantName:  "Sketches",
			wantRootP: true,
		},
		{
			name: "create under parent",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				parent := store.addFolder(testOwner, nil, "Clients")
				return &models.CreateFolderRequest{Name: "Acme", ParentID: &parent.ID}
			},
			wantName: "Acme",
		},
		{
			name: "empty parent id means root",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				return &models.CreateFolderRequest{Name: "Inbox", ParentID: strPtr("")}
			},
			wantName:  "Inbox",
			wantRootP: true,
		},
		{
			name: "name is trimmed",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				return &models.CreateFolderRequest{Name: "  Ideas  "}
			},
			wantName:  "Ideas",
			wantRootP: true,
		},
		{
			name: "missing parent",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				return &models.CreateFolderRequest{Name: "Orphan", ParentID: strPtr("fld-nope")}
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "parent owned by someone else",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				parent := store.addFolder(otherOwner, nil, "Theirs")
				return &models.CreateFolderRequest{Name: "Mine", ParentID: &parent.ID}
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "duplicate sibling name",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				store.addFolder(testOwner, nil, "Clients")
				return &models.CreateFolderRequest{Name: "Clients"}
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "empty name",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				return &models.CreateFolderRequest{Name: "   "}
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "name with slash",
			setup: func(store *fakeStore) *models.CreateFolderRequest {
				return &models.CreateFolderRequest{Name: "a/b"}
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc, _ := newTestServices(store)

			req := tt.setup(store)
			folder, err := svc.CreateFolder(ctx, testOwner, req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateFolder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateFolder() unexpected error: %v", err)
			}
			if folder.Name != tt.wantName {
				t.Errorf("name = %q, want %q", folder.Name, tt.wantName)
			}
			if tt.wantRootP && folder.ParentID != nil {
				t.Errorf("parent = %v, want root", *folder.ParentID)
			}
			if folder.ID == "" {
				t.Error("created folder has no id")
			}
		})
	}
}

func TestMoveFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("move into itself", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		clients := store.addFolder(testOwner, nil, "Clients")

		_, err := svc.MoveFolder(ctx, testOwner, clients.ID, &clients.ID)
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("self move error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("move under direct child", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		clients := store.addFolder(testOwner, nil, "Clients")
		acme := store.addFolder(testOwner, &clients.ID, "Acme")

		_, err := svc.MoveFolder(ctx, testOwner, clients.ID, &acme.ID)
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("cyclic move error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("move under indirect descendant", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		a := store.addFolder(testOwner, nil, "a")
		b := store.addFolder(testOwner, &a.ID, "b")
		c := store.addFolder(testOwner, &b.ID, "c")

		_, err := svc.MoveFolder(ctx, testOwner, a.ID, &c.ID)
		if !errors.Is(err, domain.ErrInvalidOperation) {
			t.Fatalf("deep cyclic move error = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("valid move to sibling", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		a := store.addFolder(testOwner, nil, "a")
		b := store.addFolder(testOwner, nil, "b")

		moved, err := svc.MoveFolder(ctx, testOwner, b.ID, &a.ID)
		if err != nil {
			t.Fatalf("MoveFolder() unexpected error: %v", err)
		}
		if moved.ParentID == nil || *moved.ParentID != a.ID {
			t.Errorf("parent = %v, want %s", moved.ParentID, a.ID)
		}
	})

	t.Run("move to root", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		a := store.addFolder(testOwner, nil, "a")
		b := store.addFolder(testOwner, &a.ID, "b")

		moved, err := svc.MoveFolder(ctx, testOwner, b.ID, nil)
		if err != nil {
			t.Fatalf("MoveFolder() unexpected error: %v", err)
		}
		if moved.ParentID != nil {
			t.Errorf("parent = %v, want root", *moved.ParentID)
		}
	})

	t.Run("target not owned", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		mine := store.addFolder(testOwner, nil, "mine")
		theirs := store.addFolder(otherOwner, nil, "theirs")

		_, err := svc.MoveFolder(ctx, testOwner, mine.ID, &theirs.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("foreign target error = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate name at destination", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		dest := store.addFolder(testOwner, nil, "dest")
		store.addFolder(testOwner, &dest.ID, "taken")
		moving := store.addFolder(testOwner, nil, "taken")

		_, err := svc.MoveFolder(ctx, testOwner, moving.ID, &dest.ID)
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("duplicate destination error = %v, want ErrConflict", err)
		}
	})

	t.Run("broken chain on target treated as root", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		// Target's parent points at a folder that no longer exists; the
		// ancestor walk must stop there instead of erroring.
		target := store.addFolder(testOwner, strPtr("fld-gone"), "target")
		moving := store.addFolder(testOwner, nil, "moving")

		moved, err := svc.MoveFolder(ctx, testOwner, moving.ID, &target.ID)
		if err != nil {
			t.Fatalf("MoveFolder() unexpected error: %v", err)
		}
		if moved.ParentID == nil || *moved.ParentID != target.ID {
			t.Errorf("parent = %v, want %s", moved.ParentID, target.ID)
		}
	})
}

func TestRenameFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		f := store.addFolder(testOwner, nil, "old")

		renamed, err := svc.RenameFolder(ctx, testOwner, f.ID, "new")
		if err != nil {
			t.Fatalf("RenameFolder() unexpected error: %v", err)
		}
		if renamed.Name != "new" {
			t.Errorf("name = %q, want %q", renamed.Name, "new")
		}
		if store.folders[f.ID].Name != "new" {
			t.Errorf("stored name = %q, want %q", store.folders[f.ID].Name, "new")
		}
	})

	t.Run("duplicate sibling", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		store.addFolder(testOwner, nil, "taken")
		f := store.addFolder(testOwner, nil, "old")

		_, err := svc.RenameFolder(ctx, testOwner, f.ID, "taken")
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("duplicate rename error = %v, want ErrConflict", err)
		}
	})

	t.Run("rename to own name", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		f := store.addFolder(testOwner, nil, "same")

		if _, err := svc.RenameFolder(ctx, testOwner, f.ID, "same"); err != nil {
			t.Fatalf("no-op rename error = %v, want nil", err)
		}
	})

	t.Run("not owned", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		f := store.addFolder(otherOwner, nil, "theirs")

		_, err := svc.RenameFolder(ctx, testOwner, f.ID, "mine")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("foreign rename error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("drawings move to former parent", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		clients := store.addFolder(testOwner, nil, "Clients")
		acme := store.addFolder(testOwner, &clients.ID, "Acme")
		invoice := store.addDrawing(testOwner, &acme.ID, "Invoice.png")

		if err := svc.DeleteFolder(ctx, testOwner, acme.ID); err != nil {
			t.Fatalf("DeleteFolder() unexpected error: %v", err)
		}

		if _, ok := store.folders[acme.ID]; ok {
			t.Error("deleted folder still present")
		}
		got := store.drawings[invoice.ID]
		if got.FolderID == nil || *got.FolderID != clients.ID {
			t.Errorf("drawing folder = %v, want %s", got.FolderID, clients.ID)
		}
	})

	t.Run("root folder drawings move to root", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		f := store.addFolder(testOwner, nil, "Top")
		d := store.addDrawing(testOwner, &f.ID, "sketch")

		if err := svc.DeleteFolder(ctx, testOwner, f.ID); err != nil {
			t.Fatalf("DeleteFolder() unexpected error: %v", err)
		}
		if store.drawings[d.ID].FolderID != nil {
			t.Errorf("drawing folder = %v, want root", *store.drawings[d.ID].FolderID)
		}
	})

	t.Run("descendant folders cascade and their drawings fall to root", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		top := store.addFolder(testOwner, nil, "top")
		mid := store.addFolder(testOwner, &top.ID, "mid")
		leaf := store.addFolder(testOwner, &mid.ID, "leaf")
		direct := store.addDrawing(testOwner, &top.ID, "direct")
		nested := store.addDrawing(testOwner, &leaf.ID, "nested")
		outside := store.addDrawing(testOwner, nil, "outside")

		if err := svc.DeleteFolder(ctx, testOwner, top.ID); err != nil {
			t.Fatalf("DeleteFolder() unexpected error: %v", err)
		}

		for _, id := range []string{top.ID, mid.ID, leaf.ID} {
			if _, ok := store.folders[id]; ok {
				t.Errorf("folder %s still present after cascade", id)
			}
		}
		if store.drawings[direct.ID].FolderID != nil {
			t.Errorf("direct drawing folder = %v, want root", *store.drawings[direct.ID].FolderID)
		}
		if store.drawings[nested.ID].FolderID != nil {
			t.Errorf("nested drawing folder = %v, want root", *store.drawings[nested.ID].FolderID)
		}
		if store.drawings[outside.ID].FolderID != nil {
			t.Error("unrelated drawing was reparented")
		}
	})

	t.Run("not owned", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		f := store.addFolder(otherOwner, nil, "theirs")

		if err := svc.DeleteFolder(ctx, testOwner, f.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("foreign delete error = %v, want ErrNotFound", err)
		}
		if _, ok := store.folders[f.ID]; !ok {
			t.Error("foreign folder was deleted")
		}
	})
}

func TestGetPath(t *testing.T) {
	ctx := context.Background()

	t.Run("nested chain root first", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		a := store.addFolder(testOwner, nil, "a")
		b := store.addFolder(testOwner, &a.ID, "b")
		c := store.addFolder(testOwner, &b.ID, "c")

		path, err := svc.GetPath(ctx, testOwner, c.ID)
		if err != nil {
			t.Fatalf("GetPath() unexpected error: %v", err)
		}
		want := []string{"a", "b", "c"}
		if len(path) != len(want) {
			t.Fatalf("path length = %d, want %d", len(path), len(want))
		}
		for i, name := range want {
			if path[i].Name != name {
				t.Errorf("path[%d] = %q, want %q", i, path[i].Name, name)
			}
		}
	})

	t.Run("broken chain stops at first missing link", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)
		f := store.addFolder(testOwner, strPtr("fld-gone"), "stranded")

		path, err := svc.GetPath(ctx, testOwner, f.ID)
		if err != nil {
			t.Fatalf("GetPath() unexpected error: %v", err)
		}
		if len(path) != 1 || path[0].ID != f.ID {
			t.Errorf("path = %v, want just the folder itself", path)
		}
	})

	t.Run("unknown folder", func(t *testing.T) {
		store := newFakeStore()
		svc, _ := newTestServices(store)

		if _, err := svc.GetPath(ctx, testOwner, "fld-nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("unknown folder error = %v, want ErrNotFound", err)
		}
	})
}

func TestGetContents(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	svc, _ := newTestServices(store)
	top := store.addFolder(testOwner, nil, "top")
	store.addFolder(testOwner, &top.ID, "child")
	store.addDrawing(testOwner, &top.ID, "inside")
	store.addDrawing(testOwner, nil, "loose")
	store.addFolder(otherOwner, nil, "foreign")

	t.Run("folder contents", func(t *testing.T) {
		contents, err := svc.GetContents(ctx, testOwner, &top.ID)
		if err != nil {
			t.Fatalf("GetContents() unexpected error: %v", err)
		}
		if contents.Folder == nil || contents.Folder.ID != top.ID {
			t.Error("contents missing the folder itself")
		}
		if len(contents.Folders) != 1 || contents.Folders[0].Name != "child" {
			t.Errorf("child folders = %v, want [child]", contents.Folders)
		}
		if len(contents.Drawings) != 1 || contents.Drawings[0].Name != "inside" {
			t.Errorf("drawings = %v, want [inside]", contents.Drawings)
		}
	})

	t.Run("root contents", func(t *testing.T) {
		contents, err := svc.GetContents(ctx, testOwner, nil)
		if err != nil {
			t.Fatalf("GetContents() unexpected error: %v", err)
		}
		if contents.Folder != nil {
			t.Error("root contents should not carry a folder")
		}
		if len(contents.Folders) != 1 || contents.Folders[0].Name != "top" {
			t.Errorf("root folders = %v, want [top]", contents.Folders)
		}
		if len(contents.Drawings) != 1 || contents.Drawings[0].Name != "loose" {
			t.Errorf("root drawings = %v, want [loose]", contents.Drawings)
		}
	})
}
