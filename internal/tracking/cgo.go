//go:build cgo

package tracking

const cgoEnabled = true
