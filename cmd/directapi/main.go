package main

import (
	"flag"

	"github.com/nafijninja/genx/internal/application"
	config "github.com/nafijninja/genx/internal/infrastructure/configs"
)

func main() {
	envFile := flag.String("env", "", "optional .env file layered under the environment")
	flag.Parse()

	cfg, err := config.LoadConfigs(*envFile)
	if err != nil {
		panic(err)
	}

	app := application.App{Cfg: cfg}
	app.RunDirect()
}
