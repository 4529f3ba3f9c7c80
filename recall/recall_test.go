package recall

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/store"
)

// 测试目录：六款游戏覆盖 genre / platform / publisher / 评分区间。
func newTestCatalog() *store.MemoryCatalog {
	catalog := store.NewMemoryCatalog()
	games := []*core.Game{
		{ID: 1, Name: "Starfall Odyssey", Rating: 4.6, Metacritic: 91,
			Genres: []string{"RPG", "Adventure"}, Platforms: []string{"PC", "PS5"},
			Publishers: []string{"Nova"}, Tags: []string{"story-rich"}, RatingCount: 1200},
		{ID: 2, Name: "Neon Drift", Rating: 4.2, Metacritic: 84,
			Genres: []string{"Racing"}, Platforms: []string{"PC", "Xbox"},
			Publishers: []string{"Pulse"}, Tags: []string{"arcade"}, RatingCount: 800},
		{ID: 3, Name: "Shadow Keep", Rating: 4.8, Metacritic: 95,
			Genres: []string{"RPG", "Action"}, Platforms: []string{"PC", "PS5"},
			Publishers: []string{"Nova"}, Tags: []string{"story-rich"}, RatingCount: 2500},
		{ID: 4, Name: "Puzzle Garden", Rating: 3.9, Metacritic: 78,
			Genres: []string{"Puzzle"}, Platforms: []string{"Switch"},
			Publishers: []string{"Calm"}, Tags: []string{"relaxing"}, RatingCount: 300},
		{ID: 5, Name: "Iron Vanguard", Rating: 4.4, Metacritic: 88,
			Genres: []string{"Action", "Shooter"}, Platforms: []string{"PC", "Xbox"},
			Publishers: []string{"Pulse"}, Tags: []string{"multiplayer"}, RatingCount: 1800},
		{ID: 6, Name: "Moonlit Farm", Rating: 4.1, Metacritic: 82,
			Genres: []string{"Simulation"}, Platforms: []string{"PC", "Switch"},
			Publishers: []string{"Calm"}, Tags: []string{"relaxing"}, RatingCount: 950},
	}
	for _, g := range games {
		catalog.AddGame(g)
	}
	return catalog
}

func mustRate(catalog *store.MemoryCatalog, userID, gameID int64, score float64) {
	err := catalog.UpsertRating(context.Background(), &core.GameRating{
		UserID: userID, GameID: gameID, Score: score,
	})
	if err != nil {
		panic(err)
	}
}

func itemIDs(items []*core.Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
