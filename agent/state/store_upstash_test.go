package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

// fakeRedis emulates the Upstash REST surface for GET/SET/DEL commands.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string

	lastCommand []any
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastCommand = cmd

		if len(cmd) == 0 {
			http.Error(w, "empty command", http.StatusBadRequest)
			return
		}

		name, _ := cmd[0].(string)
		switch name {
		case "SET":
			key, _ := cmd[1].(string)
			val, _ := cmd[2].(string)
			f.data[key] = val
			_ = json.NewEncoder(w).Encode(map[string]any{"result": "OK"})
		case "GET":
			key, _ := cmd[1].(string)
			val, ok := f.data[key]
			if !ok {
				_ = json.NewEncoder(w).Encode(map[string]any{"result": nil})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": val})
		case "DEL":
			key, _ := cmd[1].(string)
			delete(f.data, key)
			_ = json.NewEncoder(w).Encode(map[string]any{"result": 1})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "unknown command " + name})
		}
	}
}

func newTestStore(t *testing.T, redis *fakeRedis, opts ...StoreOption) *UpstashRedisStore {
	t.Helper()
	srv := httptest.NewServer(redis.handler())
	t.Cleanup(srv.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{
		URL:   srv.URL,
		Token: "test-token",
	}, opts...)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	return store
}

func sampleState(sessionID string) *ResearchState {
	st := NewResearchState(sessionID, "battery recycling economics", testTime())
	st.Append(testTime(), assistantWithCalls("c1"))
	st.Append(testTime(), toolResult("c1", "search digest"))
	st.Append(testTime(), schema.AssistantMessage("findings", nil))
	st.Iterations = 2
	st.CompressedResearch = "final report"
	st.RawNotes = []string{"search digest\nfindings"}
	st.QAReport = "PASS"
	return st
}

func TestUpstashStoreRoundTrip(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	store := newTestStore(t, redis)

	saved := sampleState("abc")
	if err := store.Save(context.Background(), saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	redis.mu.Lock()
	if _, ok := redis.data["research:session:abc"]; !ok {
		t.Fatalf("expected key research:session:abc, data = %v", redis.data)
	}
	cmd := redis.lastCommand
	redis.mu.Unlock()
	if len(cmd) != 5 || cmd[3] != "EX" {
		t.Fatalf("SET command should carry a TTL, got %v", cmd)
	}

	loaded, err := store.Load(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.SessionID != "abc" || loaded.Topic != saved.Topic {
		t.Fatalf("loaded identity = %q/%q", loaded.SessionID, loaded.Topic)
	}
	if len(loaded.Messages) != len(saved.Messages) {
		t.Fatalf("loaded %d messages, want %d", len(loaded.Messages), len(saved.Messages))
	}
	if loaded.CompressedResearch != "final report" || loaded.QAReport != "PASS" || loaded.Iterations != 2 {
		t.Fatalf("loaded artifacts = %+v", loaded)
	}
}

func TestUpstashStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newFakeRedis())
	_, err := store.Load(context.Background(), "nope")
	if !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}
}

func TestUpstashStoreDelete(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	store := newTestStore(t, redis)

	if err := store.Save(context.Background(), sampleState("gone")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(context.Background(), "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(context.Background(), "gone"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() after Delete error = %v, want ErrStateNotFound", err)
	}
}

func TestUpstashStoreCustomPrefix(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	store := newTestStore(t, redis, WithKeyPrefix("archive:"), WithTTL(time.Minute))

	if err := store.Save(context.Background(), sampleState("xyz")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	redis.mu.Lock()
	defer redis.mu.Unlock()
	if _, ok := redis.data["archive:xyz"]; !ok {
		t.Fatalf("expected key archive:xyz, data keys = %v", keysOf(redis.data))
	}
	if got := redis.lastCommand[4]; got != float64(60) {
		t.Fatalf("TTL seconds = %v, want 60", got)
	}
}

func TestUpstashStoreSaveValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newFakeRedis())
	if err := store.Save(context.Background(), nil); !errors.Is(err, ErrNilState) {
		t.Fatalf("Save(nil) error = %v, want ErrNilState", err)
	}
	if err := store.Save(context.Background(), &ResearchState{Topic: "t"}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save() without session id error = %v, want ErrInvalidSession", err)
	}
	if _, err := store.Load(context.Background(), " "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load() with blank id error = %v, want ErrInvalidSession", err)
	}
}

func TestUpstashStoreSurfacesRedisError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "WRONGPASS invalid token"})
	}))
	t.Cleanup(srv.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: srv.URL, Token: "bad"})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	if _, err := store.Load(context.Background(), "abc"); err == nil {
		t.Fatal("Load() should surface the redis error")
	}
}

func TestNewUpstashRedisStoreValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{Token: "t"}); err == nil {
		t.Fatal("missing url should fail")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io"}); err == nil {
		t.Fatal("missing token should fail")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("negative ttl should fail")
	}
}

func keysOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
