//go:build !release

package clog

// debugBuild keeps debug records; build with -tags release to drop them
const debugBuild = true
