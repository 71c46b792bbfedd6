package main

import "runtime/debug"

// version is stamped by release builds:
// -ldflags "-X main.version=v1.0.0"
var version = ""

// getVersion resolves the version to report: the ldflags stamp when present,
// the module version recorded by "go install @version" otherwise, and "dev"
// for local builds.
func getVersion() string {
	if version != "" {
		return version
	}

	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}
