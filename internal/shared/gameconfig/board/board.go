package board

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed board.yaml
var boardYAML []byte

const (
	TypeStart     = "start"
	TypeFinal     = "final"
	TypeSanctuary = "sanctuary"
	TypeEnemy     = "enemy"
	TypeTreasure  = "treasure"
	TypeLuck      = "luck"
)

type TileSpec struct {
	Type string `yaml:"type"`
	Tier int    `yaml:"tier"`
}

// Encounter 遭遇表一项：权重 + 每个敌人的档位。
type Encounter struct {
	Weight  int   `yaml:"weight"`
	Enemies []int `yaml:"enemies"`
}

type Layout struct {
	Tiles      []TileSpec          `yaml:"tiles"`
	Encounters map[int][]Encounter `yaml:"encounters"`
}

var (
	loadOnce sync.Once
	loaded   *Layout
	loadErr  error
)

func Load() error {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(boardYAML)
	})
	return loadErr
}

// Parse 解析并校验布局：恰好一个起点在首格，恰好一个终点在末格。
func Parse(raw []byte) (*Layout, error) {
	l := &Layout{}
	if err := yaml.Unmarshal(raw, l); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	if len(l.Tiles) < 2 {
		return nil, fmt.Errorf("board needs at least 2 tiles, got %d", len(l.Tiles))
	}
	starts, finals := 0, 0
	for i, t := range l.Tiles {
		switch t.Type {
		case TypeStart:
			starts++
			if i != 0 {
				return nil, fmt.Errorf("start tile must be first, found at %d", i)
			}
		case TypeFinal:
			finals++
			if i != len(l.Tiles)-1 {
				return nil, fmt.Errorf("final tile must be last, found at %d", i)
			}
		case TypeSanctuary:
		case TypeEnemy, TypeTreasure, TypeLuck:
			if t.Tier < 1 || t.Tier > 3 {
				return nil, fmt.Errorf("tile %d: tier %d out of range", i, t.Tier)
			}
		default:
			return nil, fmt.Errorf("tile %d: unknown type %q", i, t.Type)
		}
	}
	if starts != 1 || finals != 1 {
		return nil, fmt.Errorf("board needs exactly one start and one final, got %d/%d", starts, finals)
	}
	return l, nil
}

func mustLayout() *Layout {
	if err := Load(); err != nil {
		panic(err)
	}
	return loaded
}

// Tiles 内置路线的副本。
func Tiles() []TileSpec {
	return slices.Clone(mustLayout().Tiles)
}

// Encounters 某档敌人格的遭遇表。
func Encounters(tier int) []Encounter {
	return slices.Clone(mustLayout().Encounters[tier])
}
