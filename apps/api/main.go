package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/tmukana/uongozi/core"
	"github.com/tmukana/uongozi/core/calendar"
	"github.com/tmukana/uongozi/core/forum"
	"github.com/tmukana/uongozi/core/mentorship"
	"github.com/tmukana/uongozi/core/notification"
	"github.com/tmukana/uongozi/core/program"
	"github.com/tmukana/uongozi/core/resource"
	"github.com/tmukana/uongozi/core/user"

	echoapi "github.com/tmukana/uongozi/apps/api/echo"
	emailsvc "github.com/tmukana/uongozi/services/email"
	logsvc "github.com/tmukana/uongozi/services/logger"
	"github.com/tmukana/uongozi/storage/database"
	"github.com/tmukana/uongozi/storage/query"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()
	qs := query.NewPostgresService(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(qs)
	aggregator := calendar.NewAggregator(logger, calendar.DefaultSources(qs)...)
	overlay := calendar.NewOverlay(qs, logger)
	programSvc := program.NewService(qs, mailSvc, logger)
	mentorshipSvc := mentorship.NewService(qs, mailSvc, logger)
	forumSvc := forum.NewService(qs)
	notificationSvc := notification.NewService(qs, logger)
	resourceSvc := resource.NewService(qs, conf.StorageBaseURL)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Logger:          logger,
		UserSvc:         usrSvc,
		Aggregator:      aggregator,
		Overlay:         overlay,
		ProgramSvc:      programSvc,
		MentorshipSvc:   mentorshipSvc,
		ForumSvc:        forumSvc,
		NotificationSvc: notificationSvc,
		ResourceSvc:     resourceSvc,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db, conf); err != nil {
		return nil, err
	}
	return db, nil
}
