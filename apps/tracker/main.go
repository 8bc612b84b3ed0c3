package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
	emailsvc "github.com/trezcool/presence/services/email"
	logsvc "github.com/trezcool/presence/services/logger"
	"github.com/trezcool/presence/storage"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "PRESENCE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	if err := start(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func start(args []string) error {
	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	defer appLogger.Close()

	// set up storage
	ctx := context.Background()
	persister, closer, err := storage.Open(ctx, conf)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	tracker, err := attendance.NewTracker(ctx, persister, attendance.WithLogger(appLogger))
	if err != nil {
		return err
	}
	mailSvc := emailsvc.New(conf, appLogger)
	defer mailSvc.Wait()

	// start CLI
	cli := commandLine{
		tracker:    tracker,
		mailSvc:    mailSvc,
		reminderTo: conf.ReminderTo,
		out:        os.Stdout,
	}
	return cli.run(args)
}
