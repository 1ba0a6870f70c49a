package main

import (
	database "schoolku_backend/internals/databases"
	"schoolku_backend/internals/seeds"
)

var autoMigrateFunc = database.AutoMigrate // mockable

func (cli *commandLine) migrate() error {
	return autoMigrateFunc(cli.db)
}

func (cli *commandLine) seedDemo() error {
	return seeds.RunAllSeeds(cli.db)
}
