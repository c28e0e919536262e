package serverconfig

import (
	"os"
	"strconv"

	"github.com/Jinglemisk/king-of-the-mountain-sub001/internal/shared/config"
)

var Conf Config

// Load 读取 cfgName（为空时向上查找 configs/conf.yml）到全局 Conf，并开启热更新。
func Load(cfgName string) (*config.Loader, error) {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return nil, err
	}
	loader, err := config.Load(path, &Conf, true)
	if err != nil {
		return nil, err
	}
	applyEnv()
	return loader, nil
}

// applyEnv 环境变量优先；未设置时回填配置值，兼容本地开发。
func applyEnv() {
	if os.Getenv("JWT_SECRET") == "" && Conf.Match.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.Match.JWTSecret)
	}
	if os.Getenv("SNOWFLAKE_NODE_ID") == "" && Conf.Match.SnowflakeNode > 0 {
		_ = os.Setenv("SNOWFLAKE_NODE_ID", strconv.FormatInt(Conf.Match.SnowflakeNode, 10))
	}
}

// StateDriver 返回对局状态存储驱动，默认 memory。
func (c MatchConfig) StateDriver() string {
	if c.StoreDriver == "" {
		return DriverMemory
	}
	return c.StoreDriver
}

// ActionLogDriver 返回行动日志存储驱动，默认跟随状态存储。
func (c MatchConfig) ActionLogDriver() string {
	if c.LogDriver == "" {
		return c.StateDriver()
	}
	return c.LogDriver
}
