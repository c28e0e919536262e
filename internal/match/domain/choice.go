package domain

import "slices"

// ChoiceKind 挂起选择的种类。
type ChoiceKind string

const (
	// ChoiceEffect 效果需要玩家选定目标物品后重新执行
	ChoiceEffect ChoiceKind = "effect"
	// ChoiceOverflow 背包溢出，需要决定保留/装备/丢弃
	ChoiceOverflow ChoiceKind = "overflow"
)

// PendingChoice 持久化在对局文档里，进程重启后仍可继续。
type PendingChoice struct {
	Kind     ChoiceKind `json:"kind" bson:"kind"`
	PlayerID PlayerID   `json:"player_id" bson:"player_id"`
	Effect   string     `json:"effect,omitempty" bson:"effect,omitempty"`
	Card     *LuckCard  `json:"card,omitempty" bson:"card,omitempty"`
	TargetID PlayerID   `json:"target_id,omitempty" bson:"target_id,omitempty"`
	// Candidates 可选的物品 id
	Candidates []string `json:"candidates,omitempty" bson:"candidates,omitempty"`
	// Overflow 尚未放入背包的物品
	Overflow []*Item `json:"overflow,omitempty" bson:"overflow,omitempty"`
	// Capacity 背包格数，即背包与溢出物品合计最多保留几件
	Capacity int `json:"capacity,omitempty" bson:"capacity,omitempty"`
}

func (c *PendingChoice) Clone() *PendingChoice {
	if c == nil {
		return nil
	}
	out := *c
	out.Card = c.Card.Clone()
	out.Candidates = slices.Clone(c.Candidates)
	if c.Overflow != nil {
		out.Overflow = make([]*Item, len(c.Overflow))
		for i, it := range c.Overflow {
			out.Overflow[i] = it.Clone()
		}
	}
	return &out
}

func (c *PendingChoice) Allows(id string) bool {
	return c != nil && slices.Contains(c.Candidates, id)
}
