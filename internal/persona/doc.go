// Package persona defines the historical magistrate profiles and the
// immutable registry request handlers look them up in.
package persona
