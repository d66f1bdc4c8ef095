package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector collects business metrics periodically
type BusinessMetricsCollector struct {
	db      *gorm.DB
	metrics *Metrics
	logger  *zap.Logger
	ticker  *time.Ticker
	done    chan bool
}

// NewBusinessMetricsCollector creates a new collector
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		db:      db,
		metrics: metrics,
		logger:  logger,
		ticker:  time.NewTicker(60 * time.Second),
		done:    make(chan bool),
	}
}

// Start begins collecting metrics, with one immediate collection
func (c *BusinessMetricsCollector) Start() {
	go func() {
		c.collect()

		for {
			select {
			case <-c.ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	c.ticker.Stop()
	c.done <- true
}

// collect gathers business gauge values from the database
func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var quoteCount int64
	if err := c.db.WithContext(ctx).Table("quotes").Count(&quoteCount).Error; err != nil {
		c.logger.Error("Failed to count quotes", zap.Error(err))
	} else {
		c.metrics.SetQuotesTotal(quoteCount)
	}

	var customerCount int64
	if err := c.db.WithContext(ctx).Table("customers").Count(&customerCount).Error; err != nil {
		c.logger.Error("Failed to count customers", zap.Error(err))
	} else {
		c.metrics.SetCustomersTotal(customerCount)
	}

	var openTasks int64
	if err := c.db.WithContext(ctx).Table("tasks").Where("done = ?", false).Count(&openTasks).Error; err != nil {
		c.logger.Error("Failed to count open tasks", zap.Error(err))
	} else {
		c.metrics.SetTasksOpen(openTasks)
	}
}
