package main

import "fmt"

var (
	gitSHA1   string = "unknown"
	gitDirty  string = "unknown"
	buildID   string = "unknown"
	buildDate string = "unknown"
)

func IntsetGitSHA1() string {
	return gitSHA1
}

func IntsetGitDirty() string {
	return gitDirty
}

// versionString is what --version prints.
func versionString() string {
	return fmt.Sprintf("%s (git:%s-%s, built %s)", buildID, IntsetGitSHA1(), IntsetGitDirty(), buildDate)
}
