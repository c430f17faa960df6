package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestIsBusyError(t *testing.T) {
	if IsBusyError(nil) {
		t.Error("nil reads as busy")
	}
	if IsBusyError(errors.New("boom")) {
		t.Error("plain error reads as busy")
	}

	// A real driver error that is not SQLITE_BUSY must not read as busy,
	// wrapped or not.
	ctx := context.Background()
	database := openTestDB(t)

	insert := `INSERT INTO dismissals (key, actor_id, dismissed_at) VALUES ('k', '', 1)`
	if _, err := database.Conn().ExecContext(ctx, insert); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := database.Conn().ExecContext(ctx, insert)
	if err == nil {
		t.Fatal("duplicate primary key insert succeeded")
	}
	if IsBusyError(err) {
		t.Errorf("constraint error reads as busy: %v", err)
	}
	if IsBusyError(fmt.Errorf("dismissal set: %w", err)) {
		t.Errorf("wrapped constraint error reads as busy: %v", err)
	}
}

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(sql.ErrNoRows) {
		t.Error("sql.ErrNoRows not recognized")
	}
	if !IsNotFoundError(fmt.Errorf("dismissal get: %w", sql.ErrNoRows)) {
		t.Error("wrapped sql.ErrNoRows not recognized")
	}
	if IsNotFoundError(nil) {
		t.Error("nil reads as not found")
	}
	if IsNotFoundError(errors.New("boom")) {
		t.Error("plain error reads as not found")
	}
}
