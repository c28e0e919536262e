package utils

import "testing"

func TestSnowflake_同一毫秒内递增且携带节点号(t *testing.T) {
	s, err := NewSnowflake(7)
	if err != nil {
		t.Fatalf("NewSnowflake err=%v", err)
	}
	fixed := int64(1704067200000 + 1000)
	s.now = func() int64 { return fixed }

	a, b := s.NextID(), s.NextID()
	if b <= a {
		t.Fatalf("期望递增 a=%d b=%d", a, b)
	}
	if Node(a) != 7 {
		t.Fatalf("期望节点号 7, got=%d", Node(a))
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	s, _ := NewSnowflake(1)
	ts := int64(1704067200000 + 5000)
	s.now = func() int64 { return ts }
	first := s.NextID()
	ts -= 1000
	if next := s.NextID(); next <= first {
		t.Fatalf("时钟回拨后 id 不应变小 first=%d next=%d", first, next)
	}
}

func TestNewSnowflake_节点越界(t *testing.T) {
	if _, err := NewSnowflake(1 << 10); err == nil {
		t.Fatalf("期望节点越界报错")
	}
}
