package domain

// Category 物品类别，决定能放进哪个装备栏。
type Category string

const (
	CategoryHoldable Category = "holdable"
	CategoryWearable Category = "wearable"
	CategorySmall    Category = "small"
)

// SpecialStepBack 提灯：进入有敌人或其他玩家的格子前自动后退一格。
const SpecialStepBack = "step_back"

type Item struct {
	ID         string   `json:"id" bson:"id"`
	Name       string   `json:"name" bson:"name"`
	Category   Category `json:"category" bson:"category"`
	Tier       int      `json:"tier" bson:"tier"`
	Attack     int      `json:"attack,omitempty" bson:"attack,omitempty"`
	Defense    int      `json:"defense,omitempty" bson:"defense,omitempty"`
	Movement   int      `json:"movement,omitempty" bson:"movement,omitempty"`
	Heal       int      `json:"heal,omitempty" bson:"heal,omitempty"`
	Special    string   `json:"special,omitempty" bson:"special,omitempty"`
	Consumable bool     `json:"consumable,omitempty" bson:"consumable,omitempty"`
}

func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Slot 装备栏下标：0、1 为手持栏，2 为穿戴栏。
type Slot int

const (
	SlotHandA Slot = iota
	SlotHandB
	SlotBody
	SlotCount
)

func (s Slot) Valid() bool {
	return s >= SlotHandA && s < SlotCount
}

// Accepts 装备栏只接受对应类别，小物件不能装备。
func (s Slot) Accepts(c Category) bool {
	switch s {
	case SlotHandA, SlotHandB:
		return c == CategoryHoldable
	case SlotBody:
		return c == CategoryWearable
	default:
		return false
	}
}
