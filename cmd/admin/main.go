package main

import (
	"log"
	"os"

	"schoolku_backend/internals/configs"
	database "schoolku_backend/internals/databases"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	configs.LoadEnv()
	database.ConnectDB()
	defer database.Close()
	errAndDie(database.Ping(database.DB))

	cli := commandLine{db: database.DB}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		database.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
