package main

import (
	"context"
	"fmt"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app/port"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/infra/persistence/memory"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/infra/persistence/mongodb"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/infra/persistence/mysql"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/infrastructure/db"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/infrastructure/mongo"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/logs"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/serverconfig"

	"go.uber.org/zap"
)

type storage struct {
	state   port.StateStore
	logs    port.LogStore
	closers []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStorage 按配置选择状态与日志存储。状态存储要支持按版本条件更新，所以只有 memory 与 mongodb。
func openStorage(ctx context.Context, conf serverconfig.Config) (*storage, error) {
	st := &storage{}
	var mem *memory.MatchStore
	var mg *mongodb.MatchStore

	openMongo := func() (*mongodb.MatchStore, error) {
		if mg != nil {
			return mg, nil
		}
		client, database, err := mongo.Open(ctx, conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })
		mg = mongodb.NewMatchStore(database)
		if err := mg.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		return mg, nil
	}

	switch driver := conf.Match.StateDriver(); driver {
	case serverconfig.DriverMemory:
		mem = memory.NewMatchStore()
		st.state = mem
	case serverconfig.DriverMongoDB:
		store, err := openMongo()
		if err != nil {
			st.Close()
			return nil, err
		}
		st.state = store
	default:
		return nil, fmt.Errorf("unsupported match store driver: %s", driver)
	}

	switch driver := conf.Match.ActionLogDriver(); driver {
	case serverconfig.DriverMemory:
		if mem == nil {
			mem = memory.NewMatchStore()
		}
		st.logs = mem
	case serverconfig.DriverMongoDB:
		store, err := openMongo()
		if err != nil {
			st.Close()
			return nil, err
		}
		st.logs = store
	case serverconfig.DriverMySQL:
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		if sqlDB, err := gdb.DB(); err == nil {
			st.closers = append(st.closers, func() { _ = sqlDB.Close() })
		}
		repo := mysql.NewMatchLogRepo(gdb)
		if err := repo.AutoMigrate(); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate match_log: %w", err)
		}
		st.logs = repo
	default:
		st.Close()
		return nil, fmt.Errorf("unsupported match log driver: %s", driver)
	}

	logs.Info("match storage ready",
		zap.String("state_driver", conf.Match.StateDriver()),
		zap.String("log_driver", conf.Match.ActionLogDriver()))
	return st, nil
}
