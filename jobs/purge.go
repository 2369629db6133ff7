// purge.go - Hard-deletes soft-deleted content after a retention period

package jobs

import (
	"context"
	"fmt"
	"time"

	"go-blog-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Writer runs fn under the store's write lock.
type Writer interface {
	Write(fn func(tx *gorm.DB) error) error
}

// PurgeResult counts rows removed by one run.
type PurgeResult struct {
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// Purger removes rows that are no longer reachable. Id sequences are left
// alone, so a purged id still never resolves again.
type Purger struct {
	store     Writer
	retention time.Duration
	log       *logrus.Logger
	now       func() time.Time
}

func NewPurger(store Writer, retention time.Duration, log *logrus.Logger) *Purger {
	return &Purger{store: store, retention: retention, log: log, now: time.Now}
}

// Run deletes posts soft-deleted before the cutoff, the comments of any post
// that is deleted or gone, and comments soft-deleted before the cutoff.
func (p *Purger) Run(ctx context.Context) (PurgeResult, error) {
	cutoff := p.now().Add(-p.retention)
	var res PurgeResult

	err := p.store.Write(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)

		live := tx.Unscoped().Model(&models.Post{}).Select("id").Where("deleted_at IS NULL")
		r := tx.Unscoped().
			Where("post_id NOT IN (?) OR (deleted_at IS NOT NULL AND deleted_at < ?)", live, cutoff).
			Delete(&models.Comment{})
		if r.Error != nil {
			return fmt.Errorf("purge comments: %w", r.Error)
		}
		res.Comments = r.RowsAffected

		r = tx.Unscoped().Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).Delete(&models.Post{})
		if r.Error != nil {
			return fmt.Errorf("purge posts: %w", r.Error)
		}
		res.Posts = r.RowsAffected
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}

	p.log.WithFields(logrus.Fields{"posts": res.Posts, "comments": res.Comments}).Info("purge finished")
	return res, nil
}

// Schedule registers Run on c with the given cron spec.
func (p *Purger) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		if _, err := p.Run(context.Background()); err != nil {
			p.log.WithError(err).Error("scheduled purge failed")
		}
	})
}
