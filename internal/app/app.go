package app

import (
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/bannerstock/config"
	"github.com/talkincode/bannerstock/internal/catalog"
	"github.com/talkincode/bannerstock/internal/domain"
	"github.com/talkincode/bannerstock/internal/sales"
	"github.com/talkincode/bannerstock/internal/store"
)

// Application wires the configuration, the embedded store, both
// ledgers, the event bus and the background jobs together.
type Application struct {
	appConfig *config.AppConfig
	store     *store.Store
	idgen     *snowflake.Node
	bus       EventBus.Bus
	sched     *cron.Cron
	catalog   *catalog.Ledger
	sales     *sales.Ledger
}

var _ AppContext = (*Application)(nil)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }

func (a *Application) Store() *store.Store { return a.store }

func (a *Application) Catalog() *catalog.Ledger { return a.catalog }

func (a *Application) Sales() *sales.Ledger { return a.sales }

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron { return a.sched }

// Bus returns the in-process event bus
func (a *Application) Bus() EventBus.Bus { return a.bus }

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	for _, dir := range []string{filepath.Dir(cfg.DBPath()), cfg.BackupDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	a.store, err = store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	zap.S().Infof("store opened, path: %s", cfg.DBPath())

	a.idgen, err = snowflake.NewNode(cfg.Ledger.NodeID)
	if err != nil {
		return err
	}

	a.bus = EventBus.New()
	a.catalog = catalog.NewLedger(a.store, a.idgen, zap.L(),
		catalog.Options{StrictUpdate: cfg.Ledger.StrictUpdate})
	a.sales = sales.NewLedger(a.store, a.catalog, a.idgen, a.bus, zap.L(),
		sales.PriceMode(cfg.Ledger.PriceMode))

	a.watchLowStock()
	a.initJob()
	return nil
}

// initLogger installs the global zap logger, optionally teeing to a
// rotated file.
func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// watchLowStock warns whenever a sale leaves a product at or below the
// configured threshold.
func (a *Application) watchLowStock() {
	threshold := a.appConfig.Ledger.LowStockThreshold
	if threshold <= 0 {
		return
	}
	_ = a.bus.Subscribe(sales.TopicSaleRecorded, func(s *domain.Sale, remaining int) {
		if remaining <= threshold {
			zap.L().Warn("stock low after sale",
				zap.Int64("product_id", s.ProductID),
				zap.Int("remaining", remaining),
				zap.Int("threshold", threshold))
		}
	})
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = zap.L().Sync()
}
