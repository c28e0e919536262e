package cards

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed cards.yaml
var cardsYAML []byte

const (
	KindTreasure = "treasure"
	KindEnemy    = "enemy"
	KindLuck     = "luck"
)

// Spec 一种牌的定义。不同 kind 只读取各自相关的字段。
type Spec struct {
	Name   string `yaml:"name"`
	Copies int    `yaml:"copies"`

	// treasure
	Category   string `yaml:"category"`
	Attack     int    `yaml:"attack"`
	Defense    int    `yaml:"defense"`
	Movement   int    `yaml:"movement"`
	Heal       int    `yaml:"heal"`
	Special    string `yaml:"special"`
	Consumable bool   `yaml:"consumable"`

	// enemy
	HP int `yaml:"hp"`

	// luck
	Effect         string `yaml:"effect"`
	Value          int    `yaml:"value"`
	RequiresChoice bool   `yaml:"requires_choice"`
	CanBeKept      bool   `yaml:"can_be_kept"`
	Description    string `yaml:"description"`
}

// Populations kind -> tier -> 牌组定义。
type Populations map[string]map[int][]Spec

var (
	loadOnce sync.Once
	loaded   Populations
	loadErr  error
)

func Load() error {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(cardsYAML)
	})
	return loadErr
}

func Parse(raw []byte) (Populations, error) {
	p := Populations{}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse cards: %w", err)
	}
	for kind, tiers := range p {
		switch kind {
		case KindTreasure, KindEnemy, KindLuck:
		default:
			return nil, fmt.Errorf("unknown card kind %q", kind)
		}
		for tier, specs := range tiers {
			for i := range specs {
				s := &specs[i]
				if s.Copies <= 0 {
					s.Copies = 1
				}
				if kind == KindEnemy && s.HP <= 0 {
					return nil, fmt.Errorf("%s:%d %s: hp must be positive", kind, tier, s.Name)
				}
				if kind == KindLuck && s.Effect == "" {
					return nil, fmt.Errorf("%s:%d %s: effect is required", kind, tier, s.Name)
				}
			}
		}
	}
	return p, nil
}

func mustPopulations() Populations {
	if err := Load(); err != nil {
		panic(err)
	}
	return loaded
}

// Default 内置牌组。
func Default() Populations {
	return mustPopulations()
}

// For 某 (kind, tier) 的牌组定义副本。
func (p Populations) For(kind string, tier int) []Spec {
	return slices.Clone(p[kind][tier])
}

// Tiers 某 kind 下已配置的档位，升序。
func (p Populations) Tiers(kind string) []int {
	return slices.Sorted(maps.Keys(p[kind]))
}

// Kinds 已配置的 kind，升序。
func (p Populations) Kinds() []string {
	return slices.Sorted(maps.Keys(p))
}
