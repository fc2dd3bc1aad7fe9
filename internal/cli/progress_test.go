package cli

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadProgress(t *testing.T) {
	output := &syncBuffer{}
	progress := NewLoadProgress(output, 3)

	var wg sync.WaitGroup
	for _, source := range []string{"a.json", "b.ofx", "c.db"} {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			progress.Loaded(s)
		}(source)
	}
	wg.Wait()

	assert.Equal(t, 3, progress.Done())
	assert.NotEmpty(t, output.String())
}

func TestLoadProgress_FinishEarly(t *testing.T) {
	output := &syncBuffer{}
	progress := NewLoadProgress(output, 2)

	progress.Loaded("a.json")
	progress.Finish()

	assert.Equal(t, 1, progress.Done())
}
