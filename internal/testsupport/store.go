package testsupport

import (
	"context"
	"testing"
	"time"

	"forcealign/internal/align"
	"forcealign/internal/config"
	"forcealign/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// InsertRun persists a small run with the given language and result.
func InsertRun(t testing.TB, st *store.Store, lang string, result align.Result) store.Run {
	t.Helper()

	run := store.NewRun(store.SourceCLI, lang, align.MethodNearest, len(result.Segments), result, 25*time.Millisecond)
	saved, err := st.Insert(context.Background(), run)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return saved
}
