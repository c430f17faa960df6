package stores

import (
	"context"
	"testing"
	"time"

	"github.com/colonyops/noticeboard/internal/data/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestDismissalStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing flag reads as not dismissed", func(t *testing.T) {
		store := NewDismissalStore(openTestDB(t))

		dismissed, err := store.Dismissed(ctx, "wptrt_notice_dismissed_welcome", "")
		if err != nil {
			t.Fatalf("Dismissed: %v", err)
		}
		if dismissed {
			t.Error("got dismissed for absent flag, want not dismissed")
		}
	})

	t.Run("set then get", func(t *testing.T) {
		store := NewDismissalStore(openTestDB(t))

		if err := store.SetDismissed(ctx, "wptrt_notice_dismissed_welcome", ""); err != nil {
			t.Fatalf("SetDismissed: %v", err)
		}

		dismissed, err := store.Dismissed(ctx, "wptrt_notice_dismissed_welcome", "")
		if err != nil {
			t.Fatalf("Dismissed: %v", err)
		}
		if !dismissed {
			t.Error("got not dismissed after set, want dismissed")
		}
	})

	t.Run("set is idempotent", func(t *testing.T) {
		store := NewDismissalStore(openTestDB(t))

		for i := 0; i < 2; i++ {
			if err := store.SetDismissed(ctx, "key", "alice"); err != nil {
				t.Fatalf("SetDismissed #%d: %v", i, err)
			}
		}

		all, err := store.List(ctx, "")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("got %d rows, want 1", len(all))
		}
	})

	t.Run("actor scoping isolates flags", func(t *testing.T) {
		store := NewDismissalStore(openTestDB(t))

		if err := store.SetDismissed(ctx, "key", "alice"); err != nil {
			t.Fatalf("SetDismissed: %v", err)
		}

		dismissed, err := store.Dismissed(ctx, "key", "bob")
		if err != nil {
			t.Fatalf("Dismissed: %v", err)
		}
		if dismissed {
			t.Error("bob sees alice's per-actor flag")
		}

		dismissed, err = store.Dismissed(ctx, "key", "")
		if err != nil {
			t.Fatalf("Dismissed: %v", err)
		}
		if dismissed {
			t.Error("global read sees per-actor flag")
		}
	})

	t.Run("non-busy write failure surfaces without retrying", func(t *testing.T) {
		database := openTestDB(t)
		store := NewDismissalStore(database)
		_ = database.Close()

		start := time.Now()
		err := store.SetDismissed(ctx, "key", "")
		if err == nil {
			t.Fatal("want error on closed database")
		}
		if elapsed := time.Since(start); elapsed >= busyRetryWait {
			t.Errorf("non-busy failure took %v, want immediate return", elapsed)
		}
	})

	t.Run("list filters by key", func(t *testing.T) {
		store := NewDismissalStore(openTestDB(t))

		for _, pair := range [][2]string{{"k1", ""}, {"k1", "alice"}, {"k2", ""}} {
			if err := store.SetDismissed(ctx, pair[0], pair[1]); err != nil {
				t.Fatalf("SetDismissed: %v", err)
			}
		}

		all, err := store.List(ctx, "")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("got %d rows, want 3", len(all))
		}

		k1, err := store.List(ctx, "k1")
		if err != nil {
			t.Fatalf("List k1: %v", err)
		}
		if len(k1) != 2 {
			t.Errorf("got %d rows for k1, want 2", len(k1))
		}
		for _, d := range k1 {
			if d.Key != "k1" {
				t.Errorf("got key %q, want k1", d.Key)
			}
			if d.DismissedAt.IsZero() {
				t.Error("dismissed_at not populated")
			}
		}
	})
}
