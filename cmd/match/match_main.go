package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/actor"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/actors"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/app"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/effect"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces"
	matchhttp "github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces/handler/http"
	matchws "github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/interfaces/handler/ws"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/match/turn"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/gameconfig/cards"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/logs"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/random"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/serverconfig"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/session"
	transporthttp "github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/http"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/transport/ws"
	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgName := flag.String("config", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	loader, err := serverconfig.Load(*cfgName)
	if err != nil {
		panic(err)
	}
	if err := logs.Init("match", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	loader.OnChange(func() {
		logs.SetLevel(serverconfig.Conf.Log.Level)
		logs.Info("config reloaded", zap.String("level", serverconfig.Conf.Log.Level))
	})
	conf := serverconfig.Conf
	logs.Info("conf", zap.Any("match", conf.Match), zap.Any("http", conf.HTTPServer))

	host := conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.HTTPServer.Port)

	if err := effect.CheckLuck(cards.Default()); err != nil {
		logs.Fatal("invalid luck cards", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, conf)
	if err != nil {
		logs.Fatal("open match storage failed", zap.Error(err))
	}
	defer store.Close()

	ids, err := utils.DefaultSnowflake()
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	baseLogger := logs.Kit()
	sessMgr := session.NewSessMgr()
	presenter := matchws.NewPresenter(sessMgr, baseLogger)

	src := random.Crypto{}
	ctrl := turn.NewController(nil, src, turn.Config{MaxDepth: conf.Match.MaxDepth})
	service := app.NewMatchService(ctrl, presenter, src)

	rt := actor.NewRuntime(actors.Deps{
		Store:   store.state,
		Logs:    store.logs,
		IDs:     ids,
		Service: service,
		Log:     baseLogger,
	}, conf.Match.AskTimeout)
	defer rt.Shutdown()

	matchModule := interfaces.New(rt, sessMgr, baseLogger, matchhttp.Options{DevRoutes: conf.Match.DevRoutes})

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		matchModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	logs.Info("ws routes", zap.Strings("routes", wsRouter.Routes()))

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpServer.Register(matchModule)

	wsServer := ws.NewServer(wsRouter, matchws.Auth(nil), baseLogger)
	httpServer.Engine().GET("/ws", gin.WrapH(wsServer))

	errCh := make(chan error, 1)
	go func() {
		logs.Info("match server listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("match server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 先停接入再停 actor，等在途命令和排队日志落盘
	rt.Shutdown()
}
