package domain

// CombatSource 战斗来源。
type CombatSource string

const (
	SourceTile      CombatSource = "tile"
	SourceAmbush    CombatSource = "ambush"
	SourceDuel      CombatSource = "duel"
	SourceChallenge CombatSource = "challenge"
)

// Defender 防守方：要么是敌人（HP 存在这里），要么是玩家（HP 在 Players 里）。
type Defender struct {
	Enemy    *Enemy   `json:"enemy,omitempty" bson:"enemy,omitempty"`
	PlayerID PlayerID `json:"player_id,omitempty" bson:"player_id,omitempty"`
}

func (d Defender) ID() string {
	if d.Enemy != nil {
		return d.Enemy.ID
	}
	return string(d.PlayerID)
}

func (d Defender) IsEnemy() bool {
	return d.Enemy != nil
}

// Roll 一名战斗者一回合的掷骰与合计。
type Roll struct {
	AttackDie    int `json:"attack_die" bson:"attack_die"`
	DefenseDie   int `json:"defense_die" bson:"defense_die"`
	AttackBonus  int `json:"attack_bonus" bson:"attack_bonus"`
	DefenseBonus int `json:"defense_bonus" bson:"defense_bonus"`
	TotalAttack  int `json:"total_attack" bson:"total_attack"`
	TotalDefense int `json:"total_defense" bson:"total_defense"`
}

// DefenderRound 一名防守方在本回合的结算。
type DefenderRound struct {
	ID       string `json:"id" bson:"id"`
	Roll     Roll   `json:"roll" bson:"roll"`
	Targeted bool   `json:"targeted" bson:"targeted"`
	// Hit 攻击方命中该防守方
	Hit bool `json:"hit" bson:"hit"`
	// Counter 该防守方反击命中攻击方
	Counter  bool `json:"counter" bson:"counter"`
	WardUsed bool `json:"ward_used,omitempty" bson:"ward_used,omitempty"`
	Revived  bool `json:"revived,omitempty" bson:"revived,omitempty"`
	HPAfter  int  `json:"hp_after" bson:"hp_after"`
}

type RoundLog struct {
	Round          int             `json:"round" bson:"round"`
	Attacker       Roll            `json:"attacker" bson:"attacker"`
	Defenders      []DefenderRound `json:"defenders" bson:"defenders"`
	AttackerDamage int             `json:"attacker_damage" bson:"attacker_damage"`
	AttackerWards  int             `json:"attacker_wards,omitempty" bson:"attacker_wards,omitempty"`
	AttackerRevive bool            `json:"attacker_revive,omitempty" bson:"attacker_revive,omitempty"`
	AttackerHP     int             `json:"attacker_hp" bson:"attacker_hp"`
}

type CombatState struct {
	AttackerID PlayerID     `json:"attacker_id" bson:"attacker_id"`
	Defenders  []Defender   `json:"defenders" bson:"defenders"`
	Round      int          `json:"round" bson:"round"`
	Log        []RoundLog   `json:"log,omitempty" bson:"log,omitempty"`
	Source     CombatSource `json:"source" bson:"source"`
	// RetreatAllowed 强制战斗（伏击、决斗）不能撤退
	RetreatAllowed bool `json:"retreat_allowed" bson:"retreat_allowed"`
	// AttackDisabledFirstRound 伏击触发时进攻方第 1 回合攻击骰为 0
	AttackDisabledFirstRound bool `json:"attack_disabled_first_round,omitempty" bson:"attack_disabled_first_round,omitempty"`
	TileIndex                int  `json:"tile_index" bson:"tile_index"`
}

// PvP 防守方是否为玩家。防守方不会混合敌人和玩家。
func (c *CombatState) PvP() bool {
	return len(c.Defenders) > 0 && !c.Defenders[0].IsEnemy()
}

func (c *CombatState) Clone() *CombatState {
	if c == nil {
		return nil
	}
	out := *c
	out.Defenders = make([]Defender, len(c.Defenders))
	for i, d := range c.Defenders {
		out.Defenders[i] = Defender{Enemy: d.Enemy.Clone(), PlayerID: d.PlayerID}
	}
	if c.Log != nil {
		out.Log = make([]RoundLog, len(c.Log))
		for i, r := range c.Log {
			r.Defenders = append([]DefenderRound(nil), r.Defenders...)
			out.Log[i] = r
		}
	}
	return &out
}

// LogTail 最近 n 回合的日志。
func (c *CombatState) LogTail(n int) []RoundLog {
	if c == nil || n <= 0 || len(c.Log) == 0 {
		return nil
	}
	start := max(0, len(c.Log)-n)
	return append([]RoundLog(nil), c.Log[start:]...)
}
