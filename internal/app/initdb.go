package app

import "go.uber.org/zap"

// InitDb drops and recreates every collection, leaving an empty
// catalog and an empty sales ledger.
func (a *Application) InitDb() error {
	if err := a.store.Reset(); err != nil {
		zap.S().Error(err)
		return err
	}
	zap.S().Info("collections recreated")
	return nil
}
