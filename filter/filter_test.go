package filter

import (
	"context"
	"testing"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/store"
)

func TestRatedFilter(t *testing.T) {
	ctx := context.Background()
	catalog := store.NewMemoryCatalog()
	catalog.AddGame(&core.Game{ID: 1, Name: "A", Rating: 4.0})
	catalog.AddGame(&core.Game{ID: 2, Name: "B", Rating: 4.0})
	if err := catalog.UpsertRating(ctx, &core.GameRating{UserID: 100, GameID: 1, Score: 4.0}); err != nil {
		t.Fatal(err)
	}

	f := NewRatedFilter(catalog)
	rctx := &core.RecommendContext{UserID: 100}

	tests := []struct {
		name string
		item *core.Item
		rctx *core.RecommendContext
		want bool
	}{
		{"rated game is filtered", core.NewItem(1), rctx, true},
		{"unrated game passes", core.NewItem(2), rctx, false},
		{"nil item is filtered", nil, rctx, true},
		{"anonymous request passes everything", core.NewItem(1), &core.RecommendContext{Anonymous: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(ctx, tt.rctx, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}

	// 新评分后需要失效节点内缓存才可见
	if err := catalog.UpsertRating(ctx, &core.GameRating{UserID: 100, GameID: 2, Score: 3.0}); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.ShouldFilter(ctx, rctx, core.NewItem(2)); got {
		t.Error("cached rated set should not see the new rating yet")
	}
	f.Invalidate(100)
	if got, _ := f.ShouldFilter(ctx, rctx, core.NewItem(2)); !got {
		t.Error("invalidated filter should see the new rating")
	}
}

func TestBlacklistFilter(t *testing.T) {
	ctx := context.Background()
	f := &BlacklistFilter{GameIDs: []int64{7, 9}}

	if got, _ := f.ShouldFilter(ctx, nil, core.NewItem(7)); !got {
		t.Error("blacklisted game should be filtered")
	}
	if got, _ := f.ShouldFilter(ctx, nil, core.NewItem(8)); got {
		t.Error("non-blacklisted game should pass")
	}
}

func TestExprFilter(t *testing.T) {
	ctx := context.Background()
	rctx := &core.RecommendContext{UserID: 1}

	mature := core.NewItem(1)
	mature.Game = &core.Game{ID: 1, Rating: 4.5, ESRB: "M", Genres: []string{"Action"}}
	family := core.NewItem(2)
	family.Game = &core.Game{ID: 2, Rating: 4.0, ESRB: "E", Genres: []string{"Puzzle"}}

	tests := []struct {
		name string
		expr string
		item *core.Item
		want bool
	}{
		{"keep expression true passes", `game.esrb != "M"`, family, false},
		{"keep expression false filters", `game.esrb != "M"`, mature, true},
		{"rating threshold", `game.rating >= 4.2`, family, true},
		{"empty expression passes everything", ``, mature, false},
		{"broken expression keeps the candidate", `game.nonexistent ==`, mature, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ExprFilter{Expr: tt.expr}
			got, err := f.ShouldFilter(ctx, rctx, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNodeLabelsFilteredItems(t *testing.T) {
	ctx := context.Background()
	node := &FilterNode{Filters: []Filter{&BlacklistFilter{GameIDs: []int64{2}}}}

	in := []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3)}
	out, err := node.Process(ctx, nil, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	// 被过滤的条目带上 filtered_by 标签，便于 explain
	if lbl, ok := in[1].GetLabel("filtered_by"); !ok || lbl.Value != "filter.blacklist" {
		t.Errorf("filtered item missing filtered_by label: %v", in[1].Labels)
	}
}
