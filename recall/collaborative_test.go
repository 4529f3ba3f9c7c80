package recall

import (
	"context"
	"testing"

	"github.com/rushteam/gamerec/core"
)

func TestCollaborativeRecall(t *testing.T) {
	ctx := context.Background()

	t.Run("recommends what similar users liked", func(t *testing.T) {
		catalog := newTestCatalog()
		// 用户 1 与用户 2 在 1-5 上口味一致；用户 2 还给 6 打了高分
		for gameID := int64(1); gameID <= 5; gameID++ {
			mustRate(catalog, 1, gameID, 4.0)
			mustRate(catalog, 2, gameID, 4.0)
		}
		mustRate(catalog, 2, 6, 5.0)

		r := &Collaborative{Catalog: catalog}
		items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1}, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].ID != 6 {
			t.Fatalf("want exactly game 6, got %v", itemIDs(items))
		}
		// 归一化：score = 5.0*sim / sim = 5.0
		if items[0].Score != 5.0 {
			t.Errorf("normalized score = %v, want 5.0", items[0].Score)
		}
		if items[0].Game == nil {
			t.Error("game not resolved on result item")
		}
	})

	t.Run("candidates at or below threshold are dropped", func(t *testing.T) {
		catalog := newTestCatalog()
		for gameID := int64(1); gameID <= 5; gameID++ {
			mustRate(catalog, 1, gameID, 4.0)
			mustRate(catalog, 2, gameID, 4.0)
		}
		mustRate(catalog, 2, 6, 2.0) // 归一化后 2.0 <= 3.0

		r := &Collaborative{Catalog: catalog}
		items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1}, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 0 {
			t.Errorf("below-threshold candidate leaked: %v", itemIDs(items))
		}
	})

	t.Run("too few ratings delegates to content recall", func(t *testing.T) {
		catalog := newTestCatalog()
		mustRate(catalog, 1, 1, 5.0)
		mustRate(catalog, 1, 3, 4.5)

		cf := &Collaborative{Catalog: catalog}
		cfItems, err := cf.Recall(ctx, &core.RecommendContext{UserID: 1}, 5)
		if err != nil {
			t.Fatal(err)
		}

		content := &Content{Catalog: catalog}
		contentItems, err := content.Recall(ctx, &core.RecommendContext{UserID: 1}, 5)
		if err != nil {
			t.Fatal(err)
		}

		got, want := itemIDs(cfItems), itemIDs(contentItems)
		if len(got) != len(want) {
			t.Fatalf("fallback ranking differs: %v vs %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("fallback ranking differs: %v vs %v", got, want)
			}
		}
	})

	t.Run("no similar users yields nil for upstream fallback", func(t *testing.T) {
		catalog := newTestCatalog()
		for gameID := int64(1); gameID <= 5; gameID++ {
			mustRate(catalog, 1, gameID, 4.0)
		}

		r := &Collaborative{Catalog: catalog}
		items, err := r.Recall(ctx, &core.RecommendContext{UserID: 1}, 10)
		if err != nil {
			t.Fatal(err)
		}
		if items != nil {
			t.Errorf("want nil without similar users, got %v", itemIDs(items))
		}
	})
}
