package session

import (
	"time"

	"github.com/gofiber/storage/memory/v2"
)

// memoryGCInterval is how often the memory driver drops expired sessions.
const memoryGCInterval = time.Minute

// NewMemory creates an in-process session storage for single-instance
// deployments. Expired entries are reclaimed by the driver's own GC.
func NewMemory() *memory.Storage {
	return memory.New(memory.Config{GCInterval: memoryGCInterval})
}
