package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	for i := range 2 {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// A second run over an existing schema is a no-op.
	if err := migrate(ctx, s.DB()); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}

	for _, table := range []string{slotsTable, eventsTable} {
		var name string
		err := s.DB().QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func exerciseSlots(t *testing.T, slots Slots) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := slots.Get(ctx, KeyQuiz); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := slots.Put(ctx, KeyQuiz, []byte(`{"title":"A"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := slots.Put(ctx, KeyQuiz, []byte(`{"title":"B"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := slots.Put(ctx, KeyHistory, []byte(`[]`)); err != nil {
		t.Fatalf("put history: %v", err)
	}

	v, ok, err := slots.Get(ctx, KeyQuiz)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"title":"B"}` {
		t.Fatalf("got %s, want overwritten value", v)
	}

	if err := slots.Delete(ctx, KeyQuiz); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := slots.Get(ctx, KeyQuiz); ok {
		t.Fatal("expected quiz slot to be gone")
	}
	if _, ok, _ := slots.Get(ctx, KeyHistory); !ok {
		t.Fatal("delete removed an unrelated slot")
	}
	if err := slots.Delete(ctx, KeyPrefs); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}

func TestSQLSlots(t *testing.T) {
	exerciseSlots(t, openTestStore(t).Slots())
}

func TestMemorySlots(t *testing.T) {
	exerciseSlots(t, NewMemorySlots())
}

func TestMemorySlots_InjectedErrors(t *testing.T) {
	m := NewMemorySlots()
	m.Set(KeyPrefs, []byte("true"))
	m.GetErr = errors.New("disk gone")
	m.PutErr = errors.New("disk full")

	if _, _, err := m.Get(context.Background(), KeyPrefs); err == nil {
		t.Fatal("expected injected get error")
	}
	if err := m.Put(context.Background(), KeyPrefs, []byte("false")); err == nil {
		t.Fatal("expected injected put error")
	}
	if !m.Has(KeyPrefs) {
		t.Fatal("seeded value should survive a failed put")
	}
}

func TestSlotsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Slots().Put(ctx, KeyHistory, []byte(`[{"score":1}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.Slots().Get(ctx, KeyHistory)
	if err != nil || !ok || string(v) != `[{"score":1}]` {
		t.Fatalf("after reopen: v=%s ok=%v err=%v", v, ok, err)
	}
}

func TestLLMEvents(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()
	start := time.Now().Add(-time.Second)

	for i, purpose := range []string{"quiz-extraction", "quiz-extraction", "other"} {
		errMsg := ""
		if i == 1 {
			errMsg = "boom"
		}
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      purpose,
			Document:     fmt.Sprintf("doc%d.pdf", i),
			InputTokens:  100 * (i + 1),
			OutputTokens: 10,
			LatencyMs:    5,
			Success:      i != 1,
			ErrorMessage: errMsg,
			RequestBody:  "[user]\npage text",
			ResponseBody: `{"questions":[]}`,
		})
		if err != nil {
			t.Fatalf("append #%d: %v", i, err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].Purpose != "other" || all[0].ID <= all[1].ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if all[0].Timestamp.Before(start) {
		t.Fatalf("timestamp not recorded: %v", all[0].Timestamp)
	}

	extraction, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz-extraction", Limit: 1})
	if err != nil {
		t.Fatalf("filtered query: %v", err)
	}
	if len(extraction) != 1 || extraction[0].Success || extraction[0].ErrorMessage != "boom" {
		t.Fatalf("unexpected filtered result: %+v", extraction)
	}

	byDoc, err := repo.QueryLLMEvents(ctx, QueryOpts{Document: "doc0.pdf"})
	if err != nil {
		t.Fatalf("document query: %v", err)
	}
	if len(byDoc) != 1 || byDoc[0].Document != "doc0.pdf" || byDoc[0].InputTokens != 100 {
		t.Fatalf("unexpected document result: %+v", byDoc)
	}

	older, err := repo.QueryLLMEvents(ctx, QueryOpts{Before: all[1].ID})
	if err != nil {
		t.Fatalf("paged query: %v", err)
	}
	if len(older) != 1 || older[0].InputTokens != 100 {
		t.Fatalf("unexpected page: %+v", older)
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "[user]\npage text" || got.ResponseBody != `{"questions":[]}` {
		t.Fatalf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("missing event: %+v, %v", missing, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("PDFQUIZ_DB", filepath.Join(dir, "explicit", "q.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("env path: %v", err)
	}
	if p != filepath.Join(dir, "explicit", "q.db") {
		t.Fatalf("got %q", p)
	}
	if _, err := os.Stat(filepath.Join(dir, "explicit")); err != nil {
		t.Fatalf("parent dir not created: %v", err)
	}

	t.Setenv("PDFQUIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "xdg"))
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("xdg path: %v", err)
	}
	if p != filepath.Join(dir, "xdg", "pdfquiz", "pdfquiz.db") {
		t.Fatalf("got %q", p)
	}
}

func TestRedisSlots(t *testing.T) {
	url := os.Getenv("PDFQUIZ_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PDFQUIZ_TEST_REDIS_URL not set")
	}
	r, err := OpenRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	defer r.Close()
	ctx := context.Background()
	for _, k := range []string{KeyQuiz, KeyHistory, KeyPrefs} {
		r.Delete(ctx, k)
	}
	exerciseSlots(t, r)
}
