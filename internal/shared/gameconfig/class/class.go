package class

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed classes.yaml
var classesYAML []byte

// Class 职业对规则的增量：加值、免疫、背包格数、一次性复活。
type Class struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	MaxHP           int    `yaml:"max_hp" json:"max_hp"`
	InventorySlots  int    `yaml:"inventory_slots" json:"inventory_slots"`
	AttackVsEnemy   int    `yaml:"attack_vs_enemy" json:"attack_vs_enemy"`
	DefenseVsEnemy  int    `yaml:"defense_vs_enemy" json:"defense_vs_enemy"`
	AttackVsPlayer  int    `yaml:"attack_vs_player" json:"attack_vs_player"`
	DefenseVsPlayer int    `yaml:"defense_vs_player" json:"defense_vs_player"`
	TrapImmune      bool   `yaml:"trap_immune" json:"trap_immune"`
	Revival         bool   `yaml:"revival" json:"revival"`
	Description     string `yaml:"description" json:"description"`
}

type table struct {
	DefaultInventory int     `yaml:"default_inventory"`
	Classes          []Class `yaml:"classes"`
	byID             map[string]Class
}

var (
	loadOnce sync.Once
	loaded   *table
	loadErr  error
)

// Load 解析内置职业表，只解析一次。
func Load() error {
	loadOnce.Do(func() {
		loaded, loadErr = parse(classesYAML)
	})
	return loadErr
}

func parse(raw []byte) (*table, error) {
	t := &table{}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("parse classes: %w", err)
	}
	if t.DefaultInventory <= 0 {
		t.DefaultInventory = 4
	}
	t.byID = make(map[string]Class, len(t.Classes))
	for i := range t.Classes {
		c := &t.Classes[i]
		if c.ID == "" {
			return nil, fmt.Errorf("class #%d without id", i)
		}
		if c.InventorySlots <= 0 {
			c.InventorySlots = t.DefaultInventory
		}
		if c.MaxHP <= 0 {
			return nil, fmt.Errorf("class %s: max_hp must be positive", c.ID)
		}
		t.byID[c.ID] = *c
	}
	return t, nil
}

func mustTable() *table {
	if err := Load(); err != nil {
		panic(err)
	}
	return loaded
}

// Get 按 id 查职业。
func Get(id string) (Class, bool) {
	c, ok := mustTable().byID[id]
	return c, ok
}

// Lookup 查不到时返回一个无加值的默认职业，战斗计算对未知职业不报错。
func Lookup(id string) Class {
	if c, ok := Get(id); ok {
		return c
	}
	t := mustTable()
	return Class{ID: id, Name: id, MaxHP: 6, InventorySlots: t.DefaultInventory}
}

// All 按配置顺序返回所有职业。
func All() []Class {
	return slices.Clone(mustTable().Classes)
}
