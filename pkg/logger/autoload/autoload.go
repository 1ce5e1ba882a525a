// Package autoload initializes the global logger from LOG_* environment
// variables as a side effect of import.
package autoload

import (
	configx "github.com/nattavee/Fathom-Deep-Research-Agent/pkg/config"
	logx "github.com/nattavee/Fathom-Deep-Research-Agent/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
