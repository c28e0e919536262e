package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// 2024-01-01 00:00:00 UTC，单位毫秒
	snowflakeEpochMilli int64 = 1704067200000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift = seqBits
	timeShift = nodeBits + seqBits
)

// Snowflake 行动日志 id 生成器：时间戳 | 节点 | 序列，单调递增。
type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	return &Snowflake{nodeID: nodeID, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	// 时钟回拨时不回退
	ts = max(ts, s.lastTS)

	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			for ts <= s.lastTS {
				ts = s.now()
			}
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - snowflakeEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

// Node 从 id 中取出节点号。
func Node(id int64) int64 {
	return (id >> nodeShift) & maxNodeID
}

var (
	defaultOnce sync.Once
	defaultGen  *Snowflake
	defaultErr  error
)

// DefaultSnowflake 节点号取自 SNOWFLAKE_NODE_ID，默认 1。
func DefaultSnowflake() (*Snowflake, error) {
	defaultOnce.Do(func() {
		nodeID := int64(1)
		if raw := strings.TrimSpace(os.Getenv("SNOWFLAKE_NODE_ID")); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				defaultErr = fmt.Errorf("invalid SNOWFLAKE_NODE_ID: %w", err)
				return
			}
			nodeID = parsed
		}
		defaultGen, defaultErr = NewSnowflake(nodeID)
	})
	return defaultGen, defaultErr
}
