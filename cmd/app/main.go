package main

import (
	"conroom/config"
	"conroom/di"
	"conroom/shared/logger"
	"conroom/shared/timezone"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	timezone.Init(cfg)

	application := di.InitializeApp()
	application.Run()
}
