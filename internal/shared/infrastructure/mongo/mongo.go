package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/serverconfig"
)

const defaultDatabase = "king_of_the_mountain"

// Open 连接并 ping MongoDB，返回配置中的数据库句柄。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, errors.New("mongodb uri is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}

	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, nil, err
	}
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	name := cfg.Database
	if name == "" {
		name = defaultDatabase
	}
	l.Info("open mongodb success", zap.String("database", name))
	return client, client.Database(name), nil
}
