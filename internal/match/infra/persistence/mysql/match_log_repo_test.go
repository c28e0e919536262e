package mysql

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

// dryRun 不连库，只生成 SQL
func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "u:p@tcp(127.0.0.1:3306)/kotm?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return db
}

func TestToRow_补齐对局并序列化data(t *testing.T) {
	row, err := toRow("m1", domain.LogEntry{
		ID:     7,
		Action: "combat.round",
		Data:   map[string]any{"round": 2},
		Time:   time.Unix(100, 0),
	})
	if err != nil {
		t.Fatalf("toRow: %v", err)
	}
	if row.MatchID != "m1" || row.Data != `{"round":2}` {
		t.Fatalf("unexpected row: %+v", row)
	}

	back := fromRow(row)
	if back.Data["round"] != float64(2) || back.MatchID != "m1" {
		t.Fatalf("unexpected entry: %+v", back)
	}
}

func TestAppendLog_写入match_log表且忽略重复(t *testing.T) {
	db := dryRun(t)
	rows := []MatchLog{{ID: 1, MatchID: "m1", Action: "move"}}
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	})
	if !strings.Contains(sql, "`match_log`") {
		t.Fatalf("unexpected table: %s", sql)
	}
	if !strings.Contains(sql, "ON DUPLICATE KEY UPDATE") {
		t.Fatalf("duplicate ids not ignored: %s", sql)
	}

	r := NewMatchLogRepo(db)
	if err := r.AppendLog(context.Background(), "m1", domain.LogEntry{ID: 2, Action: "move"}); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestListLogs_按id倒序取最近N条(t *testing.T) {
	db := dryRun(t)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Where("match_id = ?", "m1").Order("id DESC").Limit(5).Find(&[]MatchLog{})
	})
	if !strings.Contains(sql, "ORDER BY id DESC") || !strings.Contains(sql, "LIMIT 5") {
		t.Fatalf("unexpected query: %s", sql)
	}

	got, err := NewMatchLogRepo(db).ListLogs(context.Background(), "m1", 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("dry run list: got=%v err=%v", got, err)
	}
}
