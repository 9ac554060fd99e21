package common

import "time"

// MetadataKeyToken is the metadata-store key under which the bearer
// credential is persisted as an opaque string.
const MetadataKeyToken = "auth_token"

// TemporaryIDFloor is the lowest identifier treated as client-generated.
// Temporary ids are derived from the current Unix time in milliseconds, so
// any id at or above this floor cannot have been assigned by the server's
// sequential id space. Records written by this client also carry an explicit
// provenance tag; the floor is only consulted for records that predate it.
const TemporaryIDFloor int64 = 1_000_000_000_000

// ActionRetention is how long completed and failed pending actions are kept
// before the sync pass purges them.
const ActionRetention = 24 * time.Hour
