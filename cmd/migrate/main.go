package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/fitbot/internal/config"
	"github.com/fdg312/fitbot/internal/dbmigrate"
	"github.com/fdg312/fitbot/internal/logging"
)

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: go run ./cmd/migrate [-dir migrations] [%s]\n", strings.Join(dbmigrate.Commands, "|"))
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)
	if !dbmigrate.IsCommand(command) {
		fmt.Fprintf(os.Stderr, "unsupported command %q\n", command)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log, closer := logging.New(logging.Params{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer closer.Close()

	sel, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}
	if sel.Warning != "" {
		log.Warn("migrate", "warning", sel.Warning)
	}
	log.Info("migrate", "command", command, "using", sel.Source)

	if err := dbmigrate.Run(context.Background(), command, sel.URL, *dir, log); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}
	log.Info("migrate completed", "command", command)
}
