package model

import "time"

const day = 24 * time.Hour

// Periods holds the proposal time windows.
type Periods struct {
	Active      time.Duration
	VetoActive  time.Duration
	Pending     time.Duration
	Execute     time.Duration
	VetoExecute time.Duration

	MinActive time.Duration
	MaxActive time.Duration
}

func DefaultPeriods() Periods {
	return Periods{
		Active:      7 * day,
		VetoActive:  3 * day,
		Pending:     5 * day,
		Execute:     3 * day,
		VetoExecute: 3 * day,
		MinActive:   7 * day,
		MaxActive:   15 * day,
	}
}
