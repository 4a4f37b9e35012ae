//go:build tools
// +build tools

// Package tools pins the CLI tooling used by go:generate and the dev loop, so
// go mod keeps their versions alongside the build dependencies.
package tools

import (
	_ "github.com/air-verse/air"
	_ "github.com/google/wire/cmd/wire"
	_ "github.com/swaggo/swag/cmd/swag"
	_ "go.uber.org/mock/mockgen"
)
