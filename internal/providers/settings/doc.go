// Package settings is the in-memory settings store shared by applications.
//
// Settings are string values addressed by key and scope. Applications watch
// the keys they care about; watchers run on the goroutine that called Set
// and are expected to forward the value to their actor as a message.
package settings
