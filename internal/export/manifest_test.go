package export

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func TestReadManifestFallsBackToDefaultUser(t *testing.T) {
	cases := map[string]string{
		"missing":   "",
		"malformed": "{not json",
		"empty":     "[]",
		"no ids":    `[{"displayName":"Nobody"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if body != "" {
				if err := afero.WriteFile(fsys, filepath.Join("export", manifestJSON), []byte(body), 0o644); err != nil {
					t.Fatalf("write manifest: %v", err)
				}
			}
			users, err := readManifest(fsys, "export")
			if err == nil {
				t.Fatal("expected informational error")
			}
			if len(users) != 1 || !reflect.DeepEqual(users[0], DefaultUser()) {
				t.Fatalf("users = %+v, want default user", users)
			}
		})
	}
}

func TestReadManifestAcceptsArrayAndObject(t *testing.T) {
	bodies := []string{
		`[{"id":"alice","displayName":"Alice","folder":"alice-export","lists":["a.csv"],"rssUsername":"alicefilms"},{"id":"bob"}]`,
		`{"users":[{"id":"alice","displayName":"Alice","folder":"alice-export","lists":["a.csv"],"rssUsername":"alicefilms"},{"id":"bob"}]}`,
	}
	for _, body := range bodies {
		fsys := afero.NewMemMapFs()
		if err := afero.WriteFile(fsys, filepath.Join("export", manifestJSON), []byte(body), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
		users, err := readManifest(fsys, "export")
		if err != nil {
			t.Fatalf("readManifest: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 users, got %d", len(users))
		}
		alice := users[0]
		if alice.Folder != "alice-export" || alice.FeedUsername != "alicefilms" || len(alice.Lists) != 1 {
			t.Fatalf("unexpected alice: %+v", alice)
		}
		bob := users[1]
		if bob.Folder != "bob" || bob.DisplayName != "bob" {
			t.Fatalf("bob defaults not applied: %+v", bob)
		}
	}
}

func TestReadManifestYAMLFallback(t *testing.T) {
	fsys := afero.NewMemMapFs()
	body := "users:\n  - id: carol\n    displayName: Carol\n    folder: carol\n"
	if err := afero.WriteFile(fsys, filepath.Join("export", manifestYAML), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	users, err := readManifest(fsys, "export")
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if len(users) != 1 || users[0].ID != "carol" || users[0].DisplayName != "Carol" {
		t.Fatalf("unexpected users: %+v", users)
	}
}
