//go:build tools
// +build tools

package tools

// Package tools pins the linter and test runner used by memwatch's CI so
// `go install` picks up the versions from go.mod.
import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/onsi/ginkgo/ginkgo"
)
