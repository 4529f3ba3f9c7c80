package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/gamerec/core"
)

func TestScoreContent(t *testing.T) {
	pref := core.NewPreference(1)
	pref.Genres["RPG"] = 1.0
	pref.Genres["Action"] = 0.5
	pref.Platforms["PC"] = 1.0
	pref.Publishers["Nova"] = 0.8
	pref.Tags["story-rich"] = 1.0
	pref.AvgRating = 4.5
	pref.AvgMetacritic = 90

	tests := []struct {
		name string
		game *core.Game
		want float64
	}{
		{
			name: "nil game scores zero",
			game: nil,
			want: 0,
		},
		{
			name: "no overlapping attributes scores zero",
			game: &core.Game{Genres: []string{"Puzzle"}, Platforms: []string{"Switch"}},
			want: 0,
		},
		{
			// genre: 1.0*0.3 + 0.5*0.3 = 0.45
			// platform: 1.0*0.2 = 0.2
			// publisher: 0.8*0.1 = 0.08
			// tag: 1.0*0.2 = 0.2
			// rating: (1 - 0.1/5)*0.1 = 0.098
			// metacritic: (1 - 2/100)*0.1 = 0.098
			name: "full attribute overlap sums weighted contributions",
			game: &core.Game{
				Rating: 4.4, Metacritic: 88,
				Genres:     []string{"RPG", "Action"},
				Platforms:  []string{"PC"},
				Publishers: []string{"Nova"},
				Tags:       []string{"story-rich"},
			},
			want: 0.45 + 0.2 + 0.08 + 0.2 + 0.098 + 0.098,
		},
		{
			// 缺失评分/媒体分时邻近度项贡献 0
			name: "missing numeric attributes contribute nothing",
			game: &core.Game{Genres: []string{"RPG"}},
			want: 1.0 * 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreContent(tt.game, pref)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScoreContent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentRecall(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous request yields nothing", func(t *testing.T) {
		r := &Content{Catalog: newTestCatalog()}
		items, err := r.Recall(ctx, &core.RecommendContext{Anonymous: true}, 5)
		if err != nil || items != nil {
			t.Fatalf("Recall() = %v, %v, want nil, nil", items, err)
		}
	})

	t.Run("rated games never appear in results", func(t *testing.T) {
		catalog := newTestCatalog()
		mustRate(catalog, 100, 1, 5.0)
		mustRate(catalog, 100, 3, 4.5)

		r := &Content{Catalog: catalog}
		items, err := r.Recall(ctx, &core.RecommendContext{UserID: 100}, 10)
		if err != nil {
			t.Fatal(err)
		}
		ids := itemIDs(items)
		if containsID(ids, 1) || containsID(ids, 3) {
			t.Errorf("rated games leaked into results: %v", ids)
		}
		if len(items) == 0 {
			t.Fatal("expected candidates for a user with a profile")
		}
		// 口味偏 RPG/Nova：Iron Vanguard（Action 重合）应排在 Puzzle Garden 前面
		if posOf(ids, 5) > posOf(ids, 4) {
			t.Errorf("Action overlap should outrank no overlap: %v", ids)
		}
	})

	t.Run("cold start without interactions falls back to global popular", func(t *testing.T) {
		catalog := newTestCatalog()
		r := &Content{Catalog: catalog}
		items, err := r.Recall(ctx, &core.RecommendContext{UserID: 999}, 3)
		if err != nil {
			t.Fatal(err)
		}
		// 全局热门：评分降序 3(4.8) > 1(4.6) > 5(4.4)
		want := []int64{3, 1, 5}
		got := itemIDs(items)
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
		if lbl, ok := items[0].GetLabel("fallback_reason"); !ok || lbl.Value != "cold_start" {
			t.Errorf("missing cold_start fallback label, got %v", items[0].Labels)
		}
	})

	t.Run("cold start with interactions restricts to browsed genres", func(t *testing.T) {
		catalog := newTestCatalog()
		// 浏览过 Racing（game 2）：兜底限定在 Racing 内
		err := catalog.AppendInteraction(ctx, &core.Interaction{
			UserID: 200, GameID: 2, Kind: core.InteractionView,
		})
		if err != nil {
			t.Fatal(err)
		}

		r := &Content{Catalog: catalog}
		items, err := r.Recall(ctx, &core.RecommendContext{UserID: 200}, 5)
		if err != nil {
			t.Fatal(err)
		}
		for _, it := range items {
			found := false
			for _, g := range it.Game.Genres {
				if g == "Racing" {
					found = true
				}
			}
			if !found {
				t.Errorf("game %d outside browsed genres: %v", it.ID, it.Game.Genres)
			}
		}
		if len(items) == 0 {
			t.Fatal("expected genre-restricted fallback results")
		}
	})
}

func posOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return len(ids)
}
