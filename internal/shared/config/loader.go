package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader 持有 viper 实例，支持热更新回调。
type Loader struct {
	v        *viper.Viper
	mu       sync.Mutex
	onChange []func()
}

// Load 读取 path 指向的配置并解码到 out（mapstructure 标签）。
// watch 为 true 时监听文件变化，变化后重新解码到同一个 out 并触发回调。
func Load(path string, out any, watch bool) (*Loader, error) {
	if !fileExist(path) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", path)
	}

	l := &Loader{v: viper.New()}
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := l.v.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("viper unmarshal config: %w", err)
	}

	if watch {
		l.v.OnConfigChange(func(e fsnotify.Event) {
			l.mu.Lock()
			defer l.mu.Unlock()
			// 热更新失败时保留旧值
			if err := l.v.Unmarshal(out); err != nil {
				return
			}
			for _, fn := range l.onChange {
				fn()
			}
		})
		l.v.WatchConfig()
	}
	return l, nil
}

// OnChange 注册热更新回调。
func (l *Loader) OnChange(fn func()) {
	if l == nil || fn == nil {
		return
	}
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

// Viper 暴露底层实例，用于读取未建模的键。
func (l *Loader) Viper() *viper.Viper {
	if l == nil {
		return nil
	}
	return l.v
}
