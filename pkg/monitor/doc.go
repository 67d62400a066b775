// Package monitor ties collection, persistence and scheduling together.
//
// A Monitor's tick collects one record from its data sources, logs it, hands
// it to the sink and publishes it as the latest status for the HTTP server.
// Run drives ticks with the scheduler, notifies systemd when the loop is
// ready and keeps the systemd watchdog fed while it runs.
//
// Tick outcomes are exported as Prometheus metrics:
//
//	brokkr_ticks_total{result}
//	brokkr_tick_duration_seconds
//	brokkr_last_tick_timestamp_seconds
//	brokkr_records_written_total
//	brokkr_missing_fields
package monitor
