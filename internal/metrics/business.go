package metrics

import "time"

// IncrementQuoteCreated increments the quote creation counter
func (m *Metrics) IncrementQuoteCreated() {
	m.safeExecute("IncrementQuoteCreated", func() {
		m.QuoteCreatedTotal.Inc()
	})
}

// IncrementQuoteReorder increments the bulk reorder counter
func (m *Metrics) IncrementQuoteReorder() {
	m.safeExecute("IncrementQuoteReorder", func() {
		m.QuoteReorderTotal.Inc()
	})
}

// IncrementReminderSent increments the dispatched reminder counter
func (m *Metrics) IncrementReminderSent() {
	m.safeExecute("IncrementReminderSent", func() {
		m.RemindersSentTotal.Inc()
	})
}

// IncrementReminderFailed increments the failed reminder counter
func (m *Metrics) IncrementReminderFailed() {
	m.safeExecute("IncrementReminderFailed", func() {
		m.RemindersFailed.Inc()
	})
}

// IncrementReminderTickSkipped increments the skipped tick counter
func (m *Metrics) IncrementReminderTickSkipped() {
	m.safeExecute("IncrementReminderTickSkipped", func() {
		m.ReminderTickSkipped.Inc()
	})
}

// ObserveReminderTick records the duration of one reminder engine tick
func (m *Metrics) ObserveReminderTick(duration time.Duration) {
	m.safeExecute("ObserveReminderTick", func() {
		m.ReminderTickSeconds.Observe(duration.Seconds())
	})
}

// SetQuotesTotal sets the total quotes gauge
func (m *Metrics) SetQuotesTotal(count int64) {
	m.safeExecute("SetQuotesTotal", func() {
		m.QuotesTotal.Set(float64(count))
	})
}

// SetCustomersTotal sets the total customers gauge
func (m *Metrics) SetCustomersTotal(count int64) {
	m.safeExecute("SetCustomersTotal", func() {
		m.CustomersTotal.Set(float64(count))
	})
}

// SetTasksOpen sets the open tasks gauge
func (m *Metrics) SetTasksOpen(count int64) {
	m.safeExecute("SetTasksOpen", func() {
		m.TasksOpen.Set(float64(count))
	})
}
