package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sirupsen/logrus"

	"github.com/blobserve/blobserve/setup"
)

var log = logrus.WithField("logger", "main")

func main() {

	srv, api, err := setup.InitFromEnv()
	if err != nil {
		log.WithError(err).Error("Failed to start server")
		os.Exit(1)
		return
	}

	if api != nil {
		go api.Run()
	}
	srv.Run()
}
