package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kivotos-dev/fanhub/app/database"
)

type fakeSubRepo struct {
	database.SubscriptionRepository

	byUID   map[string]*database.Subscription
	created []database.Subscription
	updated map[string]database.Subscription
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{
		byUID:   map[string]*database.Subscription{},
		updated: map[string]database.Subscription{},
	}
}

func (r *fakeSubRepo) GetByUID(uid string) (*database.Subscription, error) {
	return r.byUID[uid], nil
}

func (r *fakeSubRepo) Create(sub database.Subscription) (*database.Subscription, error) {
	r.created = append(r.created, sub)
	return &sub, nil
}

func (r *fakeSubRepo) Update(id string, sub database.Subscription) error {
	r.updated[id] = sub
	return nil
}

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}
}

func TestLoaderRun_CreatesSubscriptions(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "up1.yml", `
uid: "123"
up_name: "Test UP"
auto_publish_keywords: "限定ガチャ"
`)

	repo := newFakeSubRepo()
	loader := NewLoader(dir, repo)

	if err := loader.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("Expected 1 created subscription, got %d", len(repo.created))
	}
	sub := repo.created[0]
	if sub.UID != "123" || sub.UpName != "Test UP" {
		t.Errorf("Unexpected subscription: %+v", sub)
	}
	if !sub.IsActive {
		t.Errorf("Expected active by default")
	}
	if sub.DefaultNature != "fanmade" {
		t.Errorf("Expected nature default, got: %s", sub.DefaultNature)
	}
	if sub.AutoPublishKeywords != "限定ガチャ" {
		t.Errorf("Unexpected keywords: %s", sub.AutoPublishKeywords)
	}
}

func TestLoaderRun_UpdatesExisting(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "up1.yml", `
uid: "123"
up_name: "Renamed UP"
is_active: false
`)

	repo := newFakeSubRepo()
	repo.byUID["123"] = &database.Subscription{ID: "sub-1", UID: "123", UpName: "Old Name"}

	loader := NewLoader(dir, repo)
	if err := loader.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(repo.created) != 0 {
		t.Errorf("Expected no creation for an existing uid")
	}
	updated, ok := repo.updated["sub-1"]
	if !ok {
		t.Fatalf("Expected existing subscription to be updated")
	}
	if updated.UpName != "Renamed UP" {
		t.Errorf("Unexpected name after update: %s", updated.UpName)
	}
	if updated.IsActive {
		t.Errorf("Expected explicit is_active false to be honored")
	}
}

func TestLoaderRun_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing uid", "up_name: \"Test UP\"\n"},
		{"missing up_name", "uid: \"123\"\n"},
		{"invalid yaml", "uid: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSeedFile(t, dir, "bad.yml", tt.content)

			loader := NewLoader(dir, newFakeSubRepo())
			if err := loader.Run(); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestLoaderRun_MissingDirIsNoop(t *testing.T) {
	repo := newFakeSubRepo()
	loader := NewLoader("/nonexistent/seeds", repo)

	if err := loader.Run(); err != nil {
		t.Fatalf("Expected missing seeds dir to be a no-op, got: %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("Expected nothing created")
	}
}

func TestLoaderRun_IgnoresNonYMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "readme.txt", "not a seed")
	writeSeedFile(t, dir, "up1.yml", "uid: \"123\"\nup_name: \"Test UP\"\n")

	repo := newFakeSubRepo()
	loader := NewLoader(dir, repo)

	if err := loader.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("Expected only the yml file to be loaded, got %d", len(repo.created))
	}
}
