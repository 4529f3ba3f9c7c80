package profile

import (
	"context"
	"testing"

	"github.com/rushteam/gamerec/cache"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/store"
)

func TestBuilderRebuild(t *testing.T) {
	ctx := context.Background()
	catalog := store.NewMemoryCatalog()
	catalog.AddGame(&core.Game{ID: 1, Rating: 4.5, Genres: []string{"RPG"}, Platforms: []string{"PC"}})
	catalog.AddGame(&core.Game{ID: 2, Rating: 3.5, Genres: []string{"Racing"}, Platforms: []string{"PC"}})

	b := &Builder{Catalog: catalog}

	t.Run("no ratings persists an empty profile", func(t *testing.T) {
		pref, err := b.Rebuild(ctx, 100)
		if err != nil {
			t.Fatal(err)
		}
		if !pref.Empty() {
			t.Errorf("want empty profile, got %+v", pref)
		}
		stored, err := catalog.GetPreference(ctx, 100)
		if err != nil {
			t.Fatalf("empty profile should still be persisted: %v", err)
		}
		if !stored.Empty() {
			t.Errorf("stored profile not empty: %+v", stored)
		}
	})

	t.Run("rebuild reflects full rating history", func(t *testing.T) {
		if err := catalog.UpsertRating(ctx, &core.GameRating{UserID: 100, GameID: 1, Score: 5.0}); err != nil {
			t.Fatal(err)
		}
		pref, err := b.Rebuild(ctx, 100)
		if err != nil {
			t.Fatal(err)
		}
		if pref.Genres["RPG"] != 1.0 {
			t.Errorf("Genres[RPG] = %v, want 1.0", pref.Genres["RPG"])
		}

		// 第二条评分后整体重算，不做增量修补
		if err := catalog.UpsertRating(ctx, &core.GameRating{UserID: 100, GameID: 2, Score: 2.5}); err != nil {
			t.Fatal(err)
		}
		pref, err = b.Rebuild(ctx, 100)
		if err != nil {
			t.Fatal(err)
		}
		if pref.Genres["RPG"] >= 1.0 || pref.Genres["Racing"] == 0 {
			t.Errorf("profile not recomputed from scratch: %+v", pref.Genres)
		}
		if pref.Platforms["PC"] != 1.0 {
			t.Errorf("Platforms[PC] = %v, want 1.0 (both rated games on PC)", pref.Platforms["PC"])
		}
	})
}

func TestBuilderRebuildInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	catalog := store.NewMemoryCatalog()
	catalog.AddGame(&core.Game{ID: 1, Rating: 4.5, Genres: []string{"RPG"}})

	memStore := store.NewMemoryStore()
	defer memStore.Close()
	c := cache.New(memStore)

	for _, s := range core.AllStrategies {
		if err := c.Put(ctx, 100, s, []int64{1}); err != nil {
			t.Fatal(err)
		}
	}

	b := &Builder{Catalog: catalog, Cache: c}
	if _, err := b.Rebuild(ctx, 100); err != nil {
		t.Fatal(err)
	}

	for _, s := range core.AllStrategies {
		if _, ok := c.Get(ctx, 100, s); ok {
			t.Errorf("cache for %s survived profile rebuild", s)
		}
	}
}
