package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweepLoginAttemptsDropsExpiredEntries(t *testing.T) {
	ac := &AuthController{loginAttempts: make(map[string]loginAttempt)}

	now := time.Now()
	ac.loginAttempts["stale@example.com"] = loginAttempt{count: 5, lastAttempt: now.Add(-2 * time.Hour)}
	ac.loginAttempts["fresh@example.com"] = loginAttempt{count: 3, lastAttempt: now.Add(-5 * time.Minute)}

	ac.sweepLoginAttempts(now)

	require.NotContains(t, ac.loginAttempts, "stale@example.com")
	require.Contains(t, ac.loginAttempts, "fresh@example.com")
	require.Equal(t, 3, ac.loginAttempts["fresh@example.com"].count)
}

func TestSweepLoginAttemptsKeepsActiveLockout(t *testing.T) {
	ac := &AuthController{loginAttempts: make(map[string]loginAttempt)}

	now := time.Now()
	ac.loginAttempts["BDA0042"] = loginAttempt{count: 5, lastAttempt: now.Add(-loginAttemptWindow + time.Minute)}

	ac.sweepLoginAttempts(now)

	require.Contains(t, ac.loginAttempts, "BDA0042")
}
