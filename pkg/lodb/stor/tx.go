package stor

import (
	"github.com/liftout/liftout/pkg/lodb/config"
	"gorm.io/gorm"
)

// WithTxRetry runs fn inside a transaction, retrying failed attempts up to
// the LO_TX_RETRY count. config.GetTxRetry enforces the floor of 3 attempts.
// Every transaction re-reads its preconditions, so a retry after a lost lock
// conflict sees current state.
func WithTxRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error

	for i := 0; i < config.GetTxRetry(); i++ {
		if err = db.Transaction(fn); err == nil {
			return nil
		}
	}

	return err
}
