package factory

import (
	"context"

	"github.com/jfellows/userdir/internal/services/users"
	"github.com/jfellows/userdir/internal/storage/memory"
	"github.com/jfellows/userdir/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Memory exposes the backing store for direct inspection
	Memory *memory.Storage
}

// NewTestApp creates an App backed by seeded in-memory storage
func NewTestApp() *TestApp {
	store := memory.New()
	svc := users.New(store, testutil.NopLogger())

	if err := svc.EnsureSeed(context.Background()); err != nil {
		// The memory store cannot fail to seed
		panic(err)
	}

	return &TestApp{
		App:    &App{Store: store, Users: svc},
		Memory: store,
	}
}
