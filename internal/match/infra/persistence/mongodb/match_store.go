package mongodb

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	defaultCollectionName = "matches"
	logCollectionName     = "match_logs"
)

type MatchStore struct {
	coll *mongo.Collection
	logs *mongo.Collection
}

func NewMatchStore(db *mongo.Database) *MatchStore {
	return &MatchStore{
		coll: db.Collection(defaultCollectionName),
		logs: db.Collection(logCollectionName),
	}
}

// EnsureIndexes 日志按对局与 id 查询。
func (r *MatchStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "match_id", Value: 1}, {Key: "_id", Value: -1}},
	})
	return err
}

func (r *MatchStore) CreateState(ctx context.Context, s *domain.GameState) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb match collection is nil")
	}
	_, err := r.coll.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrPrecondition.WithReason(domain.ReasonMatchExists).WithData("match_id", string(s.MatchID))
	}
	return err
}

func (r *MatchStore) GetState(ctx context.Context, id domain.MatchID) (*domain.GameState, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb match collection is nil")
	}
	var s domain.GameState
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound.WithReason(domain.ReasonMatchMissing).WithData("match_id", string(id))
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyPatch 按补丁分区 $set，过滤条件带上 BaseVersion 做乐观锁。
func (r *MatchStore) ApplyPatch(ctx context.Context, id domain.MatchID, patch domain.Patch) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb match collection is nil")
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "version": patch.BaseVersion},
		patchUpdate(patch),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// 没匹配上：要么对局不存在，要么版本已经前进
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound.WithReason(domain.ReasonMatchMissing).WithData("match_id", string(id))
	}
	return domain.ErrVersionConflict.WithDataMap(map[string]any{
		"match_id": string(id),
		"base":     patch.BaseVersion,
	})
}

func patchUpdate(p domain.Patch) bson.M {
	set := bson.M{"version": p.Version}
	unset := bson.M{}

	for id, pl := range p.Players {
		set["players."+string(id)] = pl
	}
	for i, t := range p.Tiles {
		set["tiles."+strconv.Itoa(i)] = t
	}
	for k, d := range p.Decks {
		set["decks."+k] = d
	}
	if p.Turn != nil {
		set["turn"] = p.Turn
	}
	switch {
	case p.ClearCombat:
		unset["combat"] = ""
	case p.Combat != nil:
		set["combat"] = p.Combat
	}
	switch {
	case p.ClearPending:
		unset["pending"] = ""
	case p.Pending != nil:
		set["pending"] = p.Pending
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.WinnerID != nil {
		set["winner_id"] = *p.WinnerID
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *MatchStore) AppendLog(ctx context.Context, id domain.MatchID, entries ...domain.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if r == nil || r.logs == nil {
		return errors.New("mongodb match log collection is nil")
	}
	docs := make([]any, 0, len(entries))
	for _, e := range entries {
		if e.MatchID == "" {
			e.MatchID = id
		}
		docs = append(docs, e)
	}
	// 重试时可能重复写入同一批，按 _id 忽略重复
	_, err := r.logs.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return nil
}

func (r *MatchStore) ListLogs(ctx context.Context, id domain.MatchID, limit int) ([]domain.LogEntry, error) {
	if r == nil || r.logs == nil {
		return nil, errors.New("mongodb match log collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.logs.Find(ctx, bson.M{"match_id": id}, opts)
	if err != nil {
		return nil, err
	}
	var out []domain.LogEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}
