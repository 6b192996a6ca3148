//go:build release

package clog

const debugBuild = false
