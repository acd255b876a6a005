package main

import (
	"log"
	"os"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/storage/database"
	"github.com/tmukana/uongozi/storage/query"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// start CLI
	cli := commandLine{
		conf: conf,
		db:   db,
		qs:   query.NewPostgresService(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
