// Package mocks provides mock implementations for testing the sweep engine.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the engine's ports. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	sink := mocks.NewMockStorageSink(ctrl)
//	sink.EXPECT().Store(gomock.Any(), gomock.Any()).Return("/tmp/a.sql.gz", nil)
package mocks

// Generate mock for StorageSink interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=storage_sink_mock.go github.com/dbsweep/dbsweep/internal/core StorageSink

// Generate mock for SinkResolver interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=sink_resolver_mock.go github.com/dbsweep/dbsweep/internal/core SinkResolver
