// Package kv provides the durable client-side key/value stores behind the
// identity session: a NATS JetStream bucket for deployments that have one, a
// local JSON file otherwise.
package kv

import "errors"

var ErrNotFound = errors.New("key not found")
