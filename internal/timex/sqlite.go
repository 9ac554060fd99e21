package timex

// SQLiteTime is the timestamp layout for TEXT columns. Unlike
// time.RFC3339Nano it never trims trailing zeros, so the stored strings
// compare lexicographically in time order and ORDER BY / range predicates on
// timestamp columns stay correct.
const SQLiteTime = "2006-01-02T15:04:05.000000000Z07:00"
