package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"

	"github.com/clearlane/paysettle/config"
	"github.com/clearlane/paysettle/devnode"
)

func main() {
	environment := flag.String("e", "development", "configuration environment")
	flag.Usage = func() {
		fmt.Println("Usage: devnode -e {mode}")
		os.Exit(1)
	}
	flag.Parse()

	gotenv.Load()
	config.Init(*environment)
	settings := config.Load(config.GetConfig())

	logger := logrus.WithField("service", "devnode")

	chain := devnode.NewChain(settings.Engine.Network, logger)
	defer chain.Close()

	router := devnode.NewRouter(devnode.NewHandler(chain, logger))

	port := os.Getenv("PORT")
	if port == "" {
		port = "7790"
	}
	logger.WithFields(logrus.Fields{"network": settings.Engine.Network, "port": port}).Info("devnode listening")
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}
