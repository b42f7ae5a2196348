package utils

import "time"

// RevokedTokenPrefix prefixes Redis keys for logged-out app tokens.
const RevokedTokenPrefix = "auth:revoked:"

// ContextKeyUserID is the gin context key set by the auth middleware.
const ContextKeyUserID = "userID"

// HealthCheckInterval is how often StartHealthMonitor pings dependencies.
const HealthCheckInterval = 60 * time.Second
