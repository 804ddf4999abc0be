package ref

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	require.NotNil(t, Logger())

	prev := Logger()
	SetLogger(nil)
	defer SetLogger(prev)
	assert.NotNil(t, Logger())
}

func TestSetLoggerConcurrent(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(zap.NewNop())
		}()
		go func() {
			defer wg.Done()
			_, _ = Alloc(Int)
		}()
	}
	wg.Wait()
	assert.NotNil(t, Logger())
}

func TestDebugEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	typ, err := NewType("logger_test_type", 2, 2, fixedCodec{})
	require.NoError(t, err)
	require.NoError(t, RegisterType("logger_test_type", typ))

	child, err := Alloc(Int)
	require.NoError(t, err)
	parent, err := Alloc(PointerType, child)
	require.NoError(t, err)
	assert.NotNil(t, parent)

	assert.Equal(t, 1, logs.FilterMessage("type registered").Len())
	assert.Equal(t, 2, logs.FilterMessage("region allocated").Len())
	retained := logs.FilterMessage("pointer retained").All()
	require.Len(t, retained, 1)
	assert.Equal(t, child.Address(), retained[0].ContextMap()["target"])
}
