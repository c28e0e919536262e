package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRelPath 默认配置文件相对路径，从工作目录开始向上查找。
const DefaultRelPath = "configs/conf.yml"

// Resolve 确定配置文件路径：
// 1) cfgName 为绝对路径直接使用，相对路径按当前目录拼接；
// 2) cfgName 为空则从当前目录向上查找 DefaultRelPath。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findUpward(curDir, DefaultRelPath)
}

func findUpward(startDir, rel string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", rel, startDir)
		}
		dir = parent
	}
}

func fileExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
