package service

import (
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
)

const secondsPerDay = 24 * 60 * 60

// EvaluatePassword applies the password age policy. A maxAgeDays of zero or
// less disables it. Remaining days round up, so any part of a day left
// counts as a whole day.
func EvaluatePassword(changedAt time.Time, maxAgeDays int, now time.Time) domain.PasswordStatus {
	if maxAgeDays <= 0 {
		return domain.PasswordStatus{}
	}

	expiresAt := changedAt.AddDate(0, 0, maxAgeDays)
	if !now.Before(expiresAt) {
		zero := 0
		return domain.PasswordStatus{ExpiresAt: &expiresAt, IsExpired: true, DaysRemaining: &zero}
	}

	remaining := daysUntil(now, expiresAt)
	return domain.PasswordStatus{ExpiresAt: &expiresAt, DaysRemaining: &remaining}
}

// daysUntil counts whole or partial days from now to a later instant. It
// works on Unix seconds since time.Sub saturates beyond ~292 years.
func daysUntil(now, later time.Time) int {
	secs := later.Unix() - now.Unix()
	nanos := later.Nanosecond() - now.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}

	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 || nanos > 0 {
		days++
	}
	return int(days)
}
