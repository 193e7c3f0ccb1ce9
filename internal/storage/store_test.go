// ABOUTME: Contract tests run against every local Store backend.
// ABOUTME: Covers upsert, lookup, prefix resolution, delete and clear.
package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, CollectionWorkouts, Record{ID: "b", Data: []byte(`{"id":"b"}`)}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			err := s.SetMany(ctx, CollectionWorkouts, []Record{
				{ID: "a", Data: []byte(`{"id":"a"}`)},
				{ID: "c", Data: []byte(`{"id":"c"}`)},
			})
			if err != nil {
				t.Fatalf("SetMany failed: %v", err)
			}
			if err := s.Set(ctx, CollectionExercises, Record{ID: "a", Data: []byte(`{"id":"ex"}`)}); err != nil {
				t.Fatalf("Set exercise failed: %v", err)
			}

			all, err := s.GetAll(ctx, CollectionWorkouts)
			if err != nil {
				t.Fatalf("GetAll failed: %v", err)
			}
			var ids []string
			for _, r := range all {
				ids = append(ids, r.ID)
			}
			if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}

			if err := s.Set(ctx, CollectionWorkouts, Record{ID: "a", Data: []byte(`{"id":"a","name":"new"}`)}); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}
			got, err := s.Get(ctx, CollectionWorkouts, "a")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got.Data) != `{"id":"a","name":"new"}` {
				t.Errorf("Data = %s, want upserted document", got.Data)
			}

			if _, err := s.Get(ctx, CollectionWorkouts, "zzz"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get missing: err = %v, want ErrNotFound", err)
			}

			if err := s.Delete(ctx, CollectionWorkouts, "b"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := s.Delete(ctx, CollectionWorkouts, "b"); err != nil {
				t.Errorf("Delete of missing id should be a no-op, got %v", err)
			}

			if err := s.Clear(ctx, CollectionWorkouts); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			all, err = s.GetAll(ctx, CollectionWorkouts)
			if err != nil {
				t.Fatalf("GetAll after clear failed: %v", err)
			}
			if len(all) != 0 {
				t.Errorf("expected empty collection after clear, got %d", len(all))
			}

			ex, err := s.Get(ctx, CollectionExercises, "a")
			if err != nil || string(ex.Data) != `{"id":"ex"}` {
				t.Errorf("Clear touched another collection: %v %s", err, ex.Data)
			}
		})
	}
}

func TestResolvePrefix(t *testing.T) {
	ctx := context.Background()
	s := openBadgerForTest(t)
	_ = s.SetMany(ctx, CollectionTemplates, []Record{
		{ID: "abc123", Data: []byte(`{}`)},
		{ID: "abd456", Data: []byte(`{}`)},
		{ID: "ab", Data: []byte(`{}`)},
	})

	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"abc", "abc123", nil},
		{"ab", "ab", nil},
		{"abd456", "abd456", nil},
		{"a", "", ErrAmbiguous},
		{"x", "", ErrNotFound},
		{"", "", ErrNotFound},
	}
	for _, tt := range tests {
		rec, err := ResolvePrefix(ctx, s, CollectionTemplates, tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolvePrefix(%q) err = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil || rec.ID != tt.want {
			t.Errorf("ResolvePrefix(%q) = %q, %v; want %q", tt.in, rec.ID, err, tt.want)
		}
	}
}

func TestKeyHelpers(t *testing.T) {
	k := key(CollectionRecords, "squat")
	if string(k) != "recordsIndex:squat" {
		t.Errorf("key = %s, want recordsIndex:squat", k)
	}
	if got := extractID(k, CollectionRecords); got != "squat" {
		t.Errorf("extractID = %s, want squat", got)
	}
}
