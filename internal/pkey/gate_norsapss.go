//go:build norsapss

package pkey

const rsaPSSBuild = false
