package bootstrap

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	historyinadapter "pajama/internal/modules/history/adapter/in"
	historyoutadapter "pajama/internal/modules/history/adapter/out"
	historyservice "pajama/internal/modules/history/service"
	historyusecase "pajama/internal/modules/history/usecase"
	replicainadapter "pajama/internal/modules/replica/adapter/in"
	replicaoutadapter "pajama/internal/modules/replica/adapter/out"
	replicarpc "pajama/internal/modules/replica/adapter/out/rpc"
	replicaport "pajama/internal/modules/replica/port/out"
	replicaservice "pajama/internal/modules/replica/service"
	replicausecase "pajama/internal/modules/replica/usecase"
	sessioninadapter "pajama/internal/modules/session/adapter/in"
	sessionoutadapter "pajama/internal/modules/session/adapter/out"
	sessionservice "pajama/internal/modules/session/service"
	sessionusecase "pajama/internal/modules/session/usecase"
	settingsinadapter "pajama/internal/modules/settings/adapter/in"
	settingsoutadapter "pajama/internal/modules/settings/adapter/out"
	settingsservice "pajama/internal/modules/settings/service"
	settingsusecase "pajama/internal/modules/settings/usecase"
	timelineinadapter "pajama/internal/modules/timeline/adapter/in"
	timelineusecase "pajama/internal/modules/timeline/usecase"
	workoutinadapter "pajama/internal/modules/workout/adapter/in"
	workoutoutadapter "pajama/internal/modules/workout/adapter/out"
	workoutservice "pajama/internal/modules/workout/service"
	workoutusecase "pajama/internal/modules/workout/usecase"
	"pajama/internal/platform/clock"
	"pajama/internal/platform/config"
	"pajama/internal/platform/id"
	"pajama/internal/platform/kv"
	"pajama/internal/platform/logging"
	uiapp "pajama/internal/ui/app"
)

type App struct {
	HistoryCLI  historyinadapter.CLIHandler
	WorkoutCLI  workoutinadapter.CLIHandler
	SettingsCLI settingsinadapter.CLIHandler
	TimelineCLI timelineinadapter.CLIHandler
	SessionCLI  sessioninadapter.CLIHandler
	ReplicaCLI  replicainadapter.CLIHandler

	closers []func() error
}

func New(cfg config.Config) (*App, error) {
	logger := logging.New("pajama", cfg.LogLevel, os.Stderr)
	clk := clock.SystemClock{}

	store, err := kv.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	app := &App{closers: []func() error{store.Close}}

	envelopes := historyoutadapter.NewSQLiteEnvelopeStore(store, logger)
	historyUC := historyusecase.NewInteractor(historyservice.NewHistoryService(clk, envelopes, logger))

	catalog, err := workoutoutadapter.NewYAMLCatalog()
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("load workout catalog: %w", err)
	}
	custom := workoutoutadapter.NewSQLiteCustomStore(store)
	workoutUC := workoutusecase.NewInteractor(workoutservice.NewWorkoutService(
		clk,
		id.Short{},
		catalog,
		custom,
		custom,
		workoutoutadapter.NewYAMLDefinitionReader(),
	))

	settingsStore := settingsoutadapter.NewSQLiteSettingsStore(store)
	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(clk, settingsStore))

	timelineUC := timelineusecase.NewInteractor(workoutUC, settingsUC)

	creds := replicaoutadapter.NewFileCredentialStore(cfg.TokenPath)
	remote, closeRemote, err := newRemote(cfg, creds, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if closeRemote != nil {
		app.closers = append(app.closers, closeRemote)
	}
	var metrics replicaport.Metrics
	if cfg.MetricsFile != "" {
		metricsLogger := logger.Named("metrics")
		metrics = replicaoutadapter.NewPrometheusMetrics(cfg.MetricsFile, func(err error) {
			metricsLogger.Warn("write metrics textfile failed", "error", err)
		})
	}
	syncer := replicaservice.NewSyncer(
		clk,
		store,
		replicaoutadapter.NewLocalReplica(envelopes, custom, settingsStore, store),
		remote,
		creds,
		metrics,
		logger,
	)
	replicaUC := replicausecase.NewInteractor(syncer, creds, replicaoutadapter.JWTParser{}, clk)

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, id.UUID{}),
		timelineUC,
		historyUC,
		replicaUC,
		sessionoutadapter.NewFileActiveSessionStore(cfg.ActivePath),
		logger.Named("session"),
	)

	app.HistoryCLI = historyinadapter.NewCLIHandler(historyUC)
	app.WorkoutCLI = workoutinadapter.NewCLIHandler(workoutUC)
	app.SettingsCLI = settingsinadapter.NewCLIHandler(settingsUC)
	app.TimelineCLI = timelineinadapter.NewCLIHandler(timelineUC)
	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.ReplicaCLI = replicainadapter.NewCLIHandler(replicaUC)
	return app, nil
}

// newRemote returns a nil store, not a typed nil, when sync is off.
func newRemote(cfg config.Config, creds replicaport.CredentialStore, logger hclog.Logger) (replicaport.RemoteStore, func() error, error) {
	switch cfg.Remote {
	case config.RemoteGRPC:
		conn, err := replicaoutadapter.DialGRPC(cfg.RemoteAddr, creds)
		if err != nil {
			return nil, nil, fmt.Errorf("dial remote %s: %w", cfg.RemoteAddr, err)
		}
		return replicaoutadapter.NewGRPCRemoteStore(replicarpc.NewDocumentStoreClient(conn), cfg.CallTimeout), conn.Close, nil
	case config.RemotePlugin:
		store := replicaoutadapter.NewPluginRemoteStore(cfg.PluginPath, nil, cfg.CallTimeout, logging.Discard())
		return store, store.Close, nil
	default:
		logger.Debug("sync remote disabled")
		return nil, nil, nil
	}
}

// Close releases the local store and any remote connection.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunTUI opens the picker, or plays workoutID directly when set.
func RunTUI(app *App, workoutID string) error {
	model := uiapp.NewModel(uiapp.Ports{
		Workouts: app.WorkoutCLI,
		Timeline: app.TimelineCLI,
		Session:  app.SessionCLI,
		History:  app.HistoryCLI,
		Settings: app.SettingsCLI,
	}, workoutID)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
