// Package scheduler runs a tick function on a fixed, drift-corrected cadence.
//
// Ticks are aligned to a start instant: after each tick the next one is due at
//
//	now + interval - ((now - start) mod interval)
//
// so slow ticks never push the schedule later. Waits are split into steps of at
// most SleepInterval, each of which re-checks a shared Token, which bounds how
// long a stop request can go unnoticed.
//
// Usage:
//
//	token := scheduler.NewToken()
//	go func() { <-sigCh; token.Set() }()
//	scheduler.Run(ctx, scheduler.Config{Interval: time.Minute}, tick, token)
//
// Errors and panics raised by the tick are logged at CRITICAL and the loop
// carries on with the next tick.
package scheduler
