//go:build !norsapss

package pkey

const rsaPSSBuild = true
