package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/gamerec/config"
	_ "github.com/rushteam/gamerec/config/builders"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

const pipelineYAML = `
pipeline:
  name: catalog-page
  nodes:
    - type: filter
      config:
        blacklist: [4]
        expr: 'game.rating >= 4.0'
    - type: rerank.topn
      config:
        n: 2
`

func TestConfigDrivenPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(pipelineYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Name != "catalog-page" {
		t.Fatalf("name = %q", cfg.Pipeline.Name)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatal(err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatal(err)
	}

	items := make([]*core.Item, 0, 4)
	for id, rating := range map[int64]float64{1: 4.6, 2: 4.2, 3: 3.5, 4: 4.8} {
		it := core.NewItem(id)
		it.Game = &core.Game{ID: id, Rating: rating}
		items = append(items, it)
	}

	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: 1}, items)
	if err != nil {
		t.Fatal(err)
	}
	// 黑名单去掉 4，表达式去掉 3（rating 3.5），TopN 截到 2
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(out), out)
	}
	for _, it := range out {
		if it.ID == 3 || it.ID == 4 {
			t.Errorf("filtered game %d leaked through", it.ID)
		}
	}
}

func TestValidatePipelineConfigRejectsUnknownType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.dnn"}}

	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Fatal("unknown node type should be rejected")
	}
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	want := map[string]bool{"filter": false, "rerank.topn": false, "rerank.diversity": false}
	for _, ty := range types {
		if _, ok := want[ty]; ok {
			want[ty] = true
		}
	}
	for ty, seen := range want {
		if !seen {
			t.Errorf("builtin node type %q not registered", ty)
		}
	}
}
