package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/asaskevich/govalidator"
	sentry "github.com/getsentry/sentry-go"
	"github.com/go-chi/chi"
	chiware "github.com/go-chi/chi/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vendwars/vote-ledger/clients/chain"
	"github.com/vendwars/vote-ledger/clients/territory"
	"github.com/vendwars/vote-ledger/middleware"
	"github.com/vendwars/vote-ledger/rewards"
	appctx "github.com/vendwars/vote-ledger/utils/context"
	"github.com/vendwars/vote-ledger/utils/handlers"
	"github.com/vendwars/vote-ledger/utils/logging"
	srv "github.com/vendwars/vote-ledger/utils/service"
)

// ServeCmd the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "subcommand to serve the vote ledger",
	Run:   Perform("serve", RunServer),
}

func init() {
	RootCmd.AddCommand(ServeCmd)

	flagBuilder := NewFlagBuilder(ServeCmd)

	flagBuilder.String("address", ":3333",
		"the address to bind to").
		Bind("address").
		Env("ADDR")

	flagBuilder.Bool("enable-job-workers", true,
		"enable job workers (defaults true)").
		Bind("enable-job-workers").
		Env("ENABLE_JOB_WORKERS")

	flagBuilder.String("database-url", "",
		"the postgres connection url").
		Bind("database-url").
		Env("DATABASE_URL")

	flagBuilder.String("chain-service", "",
		"the settlement ledger service address").
		Bind("chain-service").
		Env("CHAIN_SERVICE")

	flagBuilder.String("chain-token", "",
		"the settlement ledger service token").
		Bind("chain-token").
		Env("CHAIN_TOKEN")

	flagBuilder.String("territory-service", "",
		"the contested zone lookup service address, optional").
		Bind("territory-service").
		Env("TERRITORY_SERVICE")

	flagBuilder.String("territory-token", "",
		"the contested zone lookup service token").
		Bind("territory-token").
		Env("TERRITORY_TOKEN")

	flagBuilder.Int("daily-vote-cap", 3,
		"votes admitted per voter, vendor and day").
		Bind("daily-vote-cap").
		Env("DAILY_VOTE_CAP")

	flagBuilder.Int("weekly-vendor-cap", 20,
		"distinct vendors a voter may vote on per rolling week").
		Bind("weekly-vendor-cap").
		Env("WEEKLY_VENDOR_CAP")

	flagBuilder.Int("settlement-attempts", 5,
		"settlement attempts before a credit is stuck").
		Bind("settlement-attempts").
		Env("SETTLEMENT_ATTEMPTS")

	flagBuilder.Duration("settlement-cadence", time.Minute,
		"how often the settlement sweep runs").
		Bind("settlement-cadence").
		Env("SETTLEMENT_CADENCE")

	flagBuilder.Duration("reconcile-cadence", 5*time.Minute,
		"how often the balance reconcile job runs").
		Bind("reconcile-cadence").
		Env("RECONCILE_CADENCE")

	flagBuilder.Duration("reconcile-stale-after", time.Hour,
		"how old a cached chain balance may get before refresh").
		Bind("reconcile-stale-after").
		Env("RECONCILE_STALE_AFTER")
}

func setupRouter(ctx context.Context, logger *zerolog.Logger) (context.Context, *chi.Mux, *rewards.Service, []srv.Job) {
	buildTime := ctx.Value(appctx.BuildTimeCTXKey).(string)
	commit := ctx.Value(appctx.CommitCTXKey).(string)
	version := ctx.Value(appctx.VersionCTXKey).(string)

	// runnable jobs for the services created
	jobs := []srv.Job{}

	govalidator.SetFieldsRequiredByDefault(true)

	r := chi.NewRouter()

	r.Use(chiware.RequestID)
	r.Use(middleware.RequestIDTransfer)

	// NOTE: This uses standard forwarding headers, note that this puts implicit trust in the header values
	// provided to us. In particular it uses the first element.
	// Consequently we should consider the request IP as primarily "informational".
	r.Use(chiware.RealIP)

	r.Use(chiware.Heartbeat("/"))
	if logger != nil {
		// Also handles panic recovery
		r.Use(hlog.NewHandler(*logger))
		r.Use(hlog.UserAgentHandler("user_agent"))
		r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
		r.Use(middleware.RequestLogger(logger))
	}
	r.Use(chiware.Timeout(15 * time.Second))
	r.Use(middleware.BearerToken)
	if os.Getenv("ENV") == "production" {
		r.Use(middleware.RateLimiter(180))
	}

	db, err := rewards.NewPostgres(viper.GetString("database-url"), true)
	if err != nil {
		sentry.CaptureException(err)
		logger.Panic().Err(err).Msg("unable to connect to the rewards db")
	}

	var roDB rewards.ReadOnlyDatastore
	if roDatabaseURL := os.Getenv("RO_DATABASE_URL"); len(roDatabaseURL) > 0 {
		roDB, err = rewards.NewPostgres(roDatabaseURL, false)
		if err != nil {
			sentry.CaptureException(err)
			logger.Panic().Err(err).Msg("unable to connect to the read only rewards db")
		}
	}

	chainClient, err := chain.New()
	if err != nil {
		sentry.CaptureException(err)
		logger.Panic().Err(err).Msg("unable to create the chain client")
	}

	// the territory service is optional, without it every vote is scored as
	// uncontested
	var territoryClient rewards.TerritoryChecker
	if len(os.Getenv("TERRITORY_SERVICE")) > 0 {
		tc, err := territory.New()
		if err != nil {
			sentry.CaptureException(err)
			logger.Panic().Err(err).Msg("unable to create the territory client")
		}
		territoryClient = tc
	}

	rewardsService, err := rewards.InitService(ctx, db, roDB, chainClient, territoryClient)
	if err != nil {
		sentry.CaptureException(err)
		logger.Panic().Err(err).Msg("rewards service initialization failed")
	}

	// add runnable jobs:
	jobs = append(jobs, rewardsService.Jobs()...)

	r.Mount("/v1", rewards.Router(rewardsService))

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("buildTime", buildTime).
		Msg("server starting up")

	r.Get("/health-check", handlers.HealthCheckHandler(version, buildTime, commit))

	return ctx, r, rewardsService, jobs
}

// RunServer is the runner for starting up the vote ledger server
func RunServer(command *cobra.Command, args []string) error {
	enableJobWorkers, err := command.Flags().GetBool("enable-job-workers")
	if err != nil {
		return err
	}
	return Server(command.Context(), enableJobWorkers)
}

// Server runs the vote ledger server
func Server(ctx context.Context, enableJobWorkers bool) error {
	logger, err := appctx.GetLogger(ctx)
	if err != nil {
		ctx, logger = logging.SetupLogger(ctx)
	}

	sentryDsn := os.Getenv("SENTRY_DSN")
	if sentryDsn != "" {
		buildTime := ctx.Value(appctx.BuildTimeCTXKey).(string)
		commit := ctx.Value(appctx.CommitCTXKey).(string)
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     sentryDsn,
			Release: fmt.Sprintf("vote-ledger@%s-%s", commit, buildTime),
		})
		defer sentry.Flush(2 * time.Second)
		if err != nil {
			logger.Panic().Err(err).Msg("unable to setup reporting!")
		}
	}
	logger.Info().
		Str("prefix", "main").
		Msg("Starting server")

	// add flags to context
	ctx = context.WithValue(ctx, appctx.ChainServiceCTXKey, viper.GetString("chain-service"))
	ctx = context.WithValue(ctx, appctx.ChainTokenCTXKey, viper.GetString("chain-token"))
	ctx = context.WithValue(ctx, appctx.DailyVoteCapCTXKey, viper.GetInt("daily-vote-cap"))
	ctx = context.WithValue(ctx, appctx.WeeklyVendorCapCTXKey, viper.GetInt("weekly-vendor-cap"))
	ctx = context.WithValue(ctx, appctx.SettlementAttemptsCTXKey, viper.GetInt("settlement-attempts"))
	ctx = context.WithValue(ctx, appctx.SettlementCadenceCTXKey, viper.GetDuration("settlement-cadence"))
	ctx = context.WithValue(ctx, appctx.ReconcileCadenceCTXKey, viper.GetDuration("reconcile-cadence"))
	ctx = context.WithValue(ctx, appctx.ReconcileStaleAfterCTXKey, viper.GetDuration("reconcile-stale-after"))

	ctx, r, _, jobs := setupRouter(ctx, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if enableJobWorkers {
		for _, job := range jobs {
			// spin up a job worker for each worker
			for i := 0; i < job.Workers; i++ {
				logger.Debug().Msg("starting job worker")
				go srv.JobWorker(ctx, job.Func, job.Cadence)
			}
		}
	}

	go func() {
		err := http.ListenAndServe(":9090", middleware.Metrics())
		if err != nil {
			sentry.CaptureException(err)
			logger.Panic().Err(err).Msg("metrics HTTP server start failed!")
		}
	}()

	server := http.Server{
		Addr:         viper.GetString("address"),
		Handler:      chi.ServerBaseContext(ctx, r),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 20 * time.Second,
	}
	err = server.ListenAndServe()
	if err != nil {
		sentry.CaptureException(err)
		logger.Panic().Err(err).Msg("HTTP server start failed!")
	}
	return nil
}
