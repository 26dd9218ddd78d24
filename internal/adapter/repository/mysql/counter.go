package mysql

import (
	"context"
	"errors"

	counterDomain "invoice-approval-service/internal/domain/counter"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterRepository struct{ db *gorm.DB }

func NewCounterRepository(db *gorm.DB) *CounterRepository { return &CounterRepository{db: db} }

// IncrementAndGet runs find-and-increment inside a transaction, locking the
// counter row so two writers cannot read the same value. The first call for
// a key creates the row at 1.
func (r *CounterRepository) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var c counterDomain.Counter
		err := q.Where("counter_key = ?", key).First(&c).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c = counterDomain.Counter{Key: key, Seq: 1}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			next = 1
			return nil
		case err != nil:
			return err
		}

		c.Seq++
		if err := tx.Model(&counterDomain.Counter{}).
			Where("counter_key = ?", key).
			Update("seq", c.Seq).Error; err != nil {
			return err
		}
		next = c.Seq
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *CounterRepository) Current(ctx context.Context, key string) (*int64, error) {
	var c counterDomain.Counter
	err := r.db.WithContext(ctx).Where("counter_key = ?", key).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v := c.Seq
	return &v, nil
}

func (r *CounterRepository) Reset(ctx context.Context, key string, value int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&counterDomain.Counter{}).
			Where("counter_key = ?", key).
			Update("seq", value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(&counterDomain.Counter{Key: key, Seq: value}).Error
		}
		return nil
	})
}
