package main

import (
	"splitlease/config"
	"splitlease/di"
	"splitlease/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
