// Package driver holds what cache drivers share with the cache package.
package driver

import "errors"

// ErrKeyNotFound is returned by Get and Take for a missing or expired key.
var ErrKeyNotFound = errors.New("key not found")

// JoinPrefix combines a namespace and key prefix the way every driver does.
func JoinPrefix(namespace, prefix string) string {
	if namespace == "" {
		return prefix
	}
	return namespace + ":" + prefix
}
