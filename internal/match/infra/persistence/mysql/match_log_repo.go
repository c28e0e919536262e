package mysql

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"
)

// MatchLog match_log 表的一行。
type MatchLog struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	MatchID  string    `gorm:"column:match_id;size:64;index:idx_match_log_match"`
	PlayerID string    `gorm:"column:player_id;size:64"`
	Action   string    `gorm:"column:action;size:64"`
	Message  string    `gorm:"column:message;size:512"`
	Data     string    `gorm:"column:data;type:text"`
	CTime    time.Time `gorm:"column:ctime"`
}

func (MatchLog) TableName() string {
	return "match_log"
}

// MatchLogRepo 行动日志落 MySQL，可与任一状态存储组合。
type MatchLogRepo struct {
	db *gorm.DB
}

func NewMatchLogRepo(db *gorm.DB) *MatchLogRepo {
	return &MatchLogRepo{db: db}
}

func (r *MatchLogRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&MatchLog{})
}

func (r *MatchLogRepo) AppendLog(ctx context.Context, id domain.MatchID, entries ...domain.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]MatchLog, 0, len(entries))
	for _, e := range entries {
		row, err := toRow(id, e)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	// 重试可能重复提交同一批，主键冲突忽略
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return domain.ErrSystemUnavailable.WithReason(domain.ReasonLogWriteFail).WithData("match_id", string(id)).WithCause(err)
	}
	return nil
}

func (r *MatchLogRepo) ListLogs(ctx context.Context, id domain.MatchID, limit int) ([]domain.LogEntry, error) {
	q := r.db.WithContext(ctx).Where("match_id = ?", string(id)).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []MatchLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, domain.ErrSystemUnavailable.WithData("match_id", string(id)).WithCause(err)
	}
	slices.Reverse(rows)
	out := make([]domain.LogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func toRow(id domain.MatchID, e domain.LogEntry) (MatchLog, error) {
	if e.MatchID == "" {
		e.MatchID = id
	}
	row := MatchLog{
		ID:       e.ID,
		MatchID:  string(e.MatchID),
		PlayerID: string(e.PlayerID),
		Action:   e.Action,
		Message:  e.Message,
		CTime:    e.Time,
	}
	if len(e.Data) > 0 {
		raw, err := json.Marshal(e.Data)
		if err != nil {
			return MatchLog{}, err
		}
		row.Data = string(raw)
	}
	return row, nil
}

func fromRow(row MatchLog) domain.LogEntry {
	e := domain.LogEntry{
		ID:       row.ID,
		MatchID:  domain.MatchID(row.MatchID),
		PlayerID: domain.PlayerID(row.PlayerID),
		Action:   row.Action,
		Message:  row.Message,
		Time:     row.CTime,
	}
	if row.Data != "" {
		// 旧数据解析失败时丢掉 data，不影响其它字段
		_ = json.Unmarshal([]byte(row.Data), &e.Data)
	}
	return e
}
