//go:build !cgo

package tracking

// go-sqlite3 only registers a stub driver without cgo
const cgoEnabled = false
