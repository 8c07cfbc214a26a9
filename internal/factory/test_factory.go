package factory

import (
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/rpsgame-go/internal/dependencies/mocks"
	"github.com/mcoot/rpsgame-go/internal/services/game"
	"github.com/mcoot/rpsgame-go/internal/services/session"
	"github.com/mcoot/rpsgame-go/internal/storage"
	"github.com/mcoot/rpsgame-go/internal/storage/memory"
	"github.com/mcoot/rpsgame-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *quartz.Mock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App on in-memory storage with mocked dependencies
func NewTestApp(t testing.TB) *TestApp {
	return NewTestAppWithKV(t, memory.New())
}

// NewTestAppWithKV creates a test App on the given key-value backend
func NewTestAppWithKV(t testing.TB, kv storage.KV) *TestApp {
	mockClock := quartz.NewMock(t)
	mockClock.Set(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(kv, mockClock, mockRandom, game.DefaultConfig(), session.DefaultConfig(), testutil.NopLogger())
	t.Cleanup(func() { _ = app.Close() })

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
