package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/movierec/core"
)

type appendNode struct {
	name string
	kind Kind
	id   int64
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return n.kind }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.id)), nil
}

func TestPipeline_RunChainsNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "a", kind: KindCandidate, id: 1},
		&appendNode{name: "b", kind: KindRank, id: 2},
	}}

	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("链路执行失败: %v", err)
	}
	if len(items) != 2 || items[0].MovieID != 1 || items[1].MovieID != 2 {
		t.Errorf("链式传递错误: %v", items)
	}
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "a", kind: KindCandidate, id: 1},
		&appendNode{name: "b", kind: KindFilter, err: boom},
		&appendNode{name: "c", kind: KindRank, id: 3},
	}}

	if _, err := p.Run(context.Background(), &core.RecommendContext{}, nil); !errors.Is(err, boom) {
		t.Fatalf("期望错误中断链路，实际 %v", err)
	}
}

func TestNodeFactory(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("test.append", func(cfg map[string]interface{}) (Node, error) {
		return &appendNode{name: "built", kind: KindCandidate, id: 7}, nil
	})

	node, err := factory.Build("test.append", nil)
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if node.Name() != "built" {
		t.Errorf("构建结果错误: %s", node.Name())
	}

	if _, err := factory.Build("unknown", nil); err == nil {
		t.Error("未注册类型应报错")
	}
}
