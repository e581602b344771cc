package app

import (
	"github.com/robfig/cron/v3"

	"github.com/talkincode/bannerstock/config"
	"github.com/talkincode/bannerstock/internal/catalog"
	"github.com/talkincode/bannerstock/internal/sales"
	"github.com/talkincode/bannerstock/internal/store"
)

// StoreProvider provides embedded store access
type StoreProvider interface {
	Store() *store.Store
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the catalog & stock ledger
type CatalogProvider interface {
	Catalog() *catalog.Ledger
}

// SalesProvider provides the sales ledger and report engine
type SalesProvider interface {
	Sales() *sales.Ledger
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	StoreProvider
	ConfigProvider
	CatalogProvider
	SalesProvider
	SchedulerProvider

	// InitDb recreates empty collections
	InitDb() error
}
