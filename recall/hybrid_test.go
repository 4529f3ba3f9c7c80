package recall

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rushteam/gamerec/core"
)

// stubSource 按固定顺序返回条目，用于验证合并算法本身。
type stubSource struct {
	name string
	ids  []int64
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(_ context.Context, _ *core.RecommendContext, limit int) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	ids := s.ids
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func TestHybridBlending(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{UserID: 1}

	t.Run("positional weighted merge rewards cross-signal agreement", func(t *testing.T) {
		r := &Hybrid{
			Content:       &stubSource{name: "content", ids: []int64{10, 20}},
			Collaborative: &stubSource{name: "collaborative", ids: []int64{20, 30}},
			Popular:       &stubSource{name: "popular", ids: []int64{30}},
		}
		items, err := r.Recall(ctx, rctx, 3)
		if err != nil {
			t.Fatal(err)
		}
		// content: 10=.4 20=.2  collab: 20=.4 30=.2  popular: 30=.2
		// 合计: 20=.6, 10=.4, 30=.4；平分按首次出现顺序 → 20, 10, 30
		want := []int64{20, 10, 30}
		got := itemIDs(items)
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
		if items[0].Score <= items[1].Score {
			t.Errorf("cross-signal game should have the highest blended score: %v", items)
		}
	})

	t.Run("failing route fails the blend with the route named", func(t *testing.T) {
		cause := errors.New("boom")
		r := &Hybrid{
			Content:       &stubSource{name: "content", err: cause},
			Collaborative: &stubSource{name: "collaborative", ids: []int64{30}},
			Popular:       &stubSource{name: "popular", ids: []int64{10, 20}},
		}
		items, err := r.Recall(ctx, rctx, 3)
		if err == nil {
			t.Fatalf("route failure must surface, got items %v", itemIDs(items))
		}
		if !errors.Is(err, cause) {
			t.Errorf("cause not wrapped: %v", err)
		}
		if !strings.Contains(err.Error(), "content") {
			t.Errorf("error should name the failing route: %v", err)
		}
	})

	t.Run("result truncates to limit", func(t *testing.T) {
		r := &Hybrid{
			Popular: &stubSource{name: "popular", ids: []int64{1, 2, 3, 4, 5}},
		}
		items, err := r.Recall(ctx, rctx, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 {
			t.Fatalf("len = %d, want 2", len(items))
		}
	})
}

// 全新用户（无评分、无行为）：三路信号全部退化为全局热门，
// 混合结果的顺序必须与热门完全一致。
func TestHybridBrandNewUserMatchesPopular(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog()
	rctx := &core.RecommendContext{UserID: 777, Count: 5}

	popular := &Popular{Catalog: catalog}
	content := &Content{Catalog: catalog, Popular: popular}
	collab := &Collaborative{Catalog: catalog, Content: content}
	hybrid := &Hybrid{Content: content, Collaborative: collab, Popular: popular}

	hybridItems, err := hybrid.Recall(ctx, rctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	popularItems, err := popular.Recall(ctx, rctx, 5)
	if err != nil {
		t.Fatal(err)
	}

	got, want := itemIDs(hybridItems), itemIDs(popularItems)
	if len(got) != len(want) {
		t.Fatalf("hybrid %v, popular %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hybrid %v, popular %v", got, want)
		}
	}
}
