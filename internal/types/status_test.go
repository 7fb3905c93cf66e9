package types

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessorStatus(t *testing.T) {
	var status ProcessorStatus

	status.Scanned("shop.orders.id")
	status.Scanned("shop.orders.total")
	status.Warn("column amount missing from catalog")
	status.Failed("shop.orders.notes", "type mismatch", "SELECT avg(notes) ...")

	assert.Equal(t, []string{"shop.orders.id", "shop.orders.total"}, status.ScannedEntities())
	assert.Len(t, status.Warnings(), 1)

	failures := status.Failures()
	assert.Len(t, failures, 1)
	assert.Equal(t, "shop.orders.notes", failures[0].Entity)
	assert.Equal(t, "type mismatch", failures[0].Message)

	assert.False(t, status.OK())
}

func TestProcessorStatusOKWithWarnings(t *testing.T) {
	var status ProcessorStatus
	status.Scanned("t.a")
	status.Warn("something non-fatal")
	assert.True(t, status.OK())
}

func TestProcessorStatusConcurrentAppend(t *testing.T) {
	var status ProcessorStatus
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			status.Scanned(fmt.Sprintf("t.col%d", n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, status.ScannedEntities(), 50)
	assert.True(t, status.OK())
}
