package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/talkincode/bannerstock/internal/catalog"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedBackupTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@hourly", func() {
		a.SchedLowStockTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedBackupTask writes a snapshot of the store into the backup
// directory and prunes old snapshots.
func (a *Application) SchedBackupTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	name := fmt.Sprintf("bannerstock-%s.db", time.Now().Format("20060102-150405"))
	path := filepath.Join(a.appConfig.BackupDir(), name)
	f, err := os.Create(path)
	if err != nil {
		zap.S().Errorf("backup create failed: %v", err)
		return
	}
	defer f.Close()

	n, err := a.store.Backup(f)
	if err != nil {
		zap.S().Errorf("backup failed: %v", err)
		return
	}
	zap.S().Infof("backup written: %s (%d bytes)", path, n)
	a.pruneBackups()
}

func (a *Application) pruneBackups() {
	keep := a.appConfig.Ledger.BackupKeep
	if keep <= 0 {
		return
	}
	entries, err := os.ReadDir(a.appConfig.BackupDir())
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "bannerstock-") {
			names = append(names, e.Name())
		}
	}
	// timestamped names sort chronologically
	sort.Strings(names)
	for len(names) > keep {
		_ = os.Remove(filepath.Join(a.appConfig.BackupDir(), names[0]))
		names = names[1:]
	}
}

// SchedLowStockTask sweeps the catalog and logs every product at or
// below the low stock threshold.
func (a *Application) SchedLowStockTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	threshold := a.appConfig.Ledger.LowStockThreshold
	if threshold <= 0 {
		return
	}
	rows, err := a.catalog.Query(catalog.Filter{})
	if err != nil {
		zap.S().Errorf("low stock sweep failed: %v", err)
		return
	}
	for _, p := range rows {
		if p.Quantity <= threshold {
			zap.L().Warn("stock low",
				zap.Int64("product_id", p.ID),
				zap.String("product", p.Label()),
				zap.Int("quantity", p.Quantity))
		}
	}
}
