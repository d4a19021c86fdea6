package main

import (
	"os"

	"github.com/expressimports/backend/internal/app"
	config "github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/pkg/logger"
)

//	@title			Express Imports API
//	@version		1.0
//	@description	Каталог, запросы на расчёт стоимости и заказы со склада.
//	@BasePath		/api
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
