package utils

import (
	"sync"
	"testing"
)

func TestBatchBuffer(t *testing.T) {
	buffer := NewBatchBuffer[string]()

	if buffer.HasData() {
		t.Error("fresh buffer should report no data")
	}
	if got := buffer.GetAndClear(); got != nil {
		t.Errorf("GetAndClear on empty buffer = %v, want nil", got)
	}

	buffer.Add("batch-1")
	buffer.Add("batch-2")

	if !buffer.HasData() {
		t.Error("buffer with items should report data")
	}
	if got := buffer.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}

	batch := buffer.GetAndClear()
	if len(batch) != 2 || batch[0] != "batch-1" || batch[1] != "batch-2" {
		t.Errorf("GetAndClear() = %v, want items in insertion order", batch)
	}

	// Draining resets the buffer for the next flush cycle.
	if buffer.HasData() || buffer.Size() != 0 {
		t.Error("buffer should be empty after GetAndClear")
	}
}

func TestBatchBuffer_ConcurrentAdds(t *testing.T) {
	buffer := NewBatchBuffer[int]()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			buffer.Add(i)
		}()
	}
	wg.Wait()

	if got := buffer.Size(); got != 100 {
		t.Errorf("Size() = %d, want 100", got)
	}
}
