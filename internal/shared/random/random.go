// Package random 对局随机源：骰子、洗牌、掉落档位都从这里取数。
//
// 线上使用 Crypto（crypto/rand，玩家无法预测或重放），测试注入 Seeded 保证可复现。
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand/v2"
	"sync"
)

// Source 均匀随机整数源。Intn 返回 [0, n)，n<=0 时返回 0。
type Source interface {
	Intn(n int) int
}

// Crypto 基于 crypto/rand 的随机源，rand.Int 内部做拒绝采样，没有取模偏差。
type Crypto struct{}

func (Crypto) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// 系统熵源不可用时进程已无法继续提供公平随机
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return int(v.Int64())
}

// Seeded 可复现的 PCG 随机源，并发安全。
type Seeded struct {
	mu   sync.Mutex
	r    *rand.Rand
	seed uint64
}

func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed: seed}
}

func (s *Seeded) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *Seeded) Seed() uint64 {
	return s.seed
}

// NewSeed 从 crypto/rand 取一个种子。
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Roll 掷一个 sides 面骰，返回 1..sides。
func Roll(src Source, sides int) int {
	if sides <= 0 {
		return 0
	}
	return src.Intn(sides) + 1
}

// Between 均匀返回 [lo, hi]。
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Shuffle Fisher–Yates 原地洗牌，每种排列等概率。
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Pick 均匀选一个元素，空切片返回零值和 false。
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.Intn(len(items))], true
}

// Entry 加权表的一项。
type Entry[T any] struct {
	Value  T
	Weight int
}

// Table 加权随机表，权重之和不要求为 100。
type Table[T any] []Entry[T]

// Roll 按权重选一项；表为空或总权重为 0 时返回零值和 false。
func (t Table[T]) Roll(src Source) (T, bool) {
	var zero T
	total := 0
	for _, e := range t {
		total += max(0, e.Weight)
	}
	if total == 0 {
		return zero, false
	}
	roll := src.Intn(total)
	current := 0
	for _, e := range t {
		current += max(0, e.Weight)
		if roll < current {
			return e.Value, true
		}
	}
	return zero, false
}
