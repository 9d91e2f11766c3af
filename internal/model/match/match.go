package match

import (
	"time"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
)

// Match records a successful mutual-acceptance simulation for a profile.
type Match struct {
	ID        string          `json:"id"`
	Profile   profile.Profile `json:"tractor"`
	CreatedAt time.Time       `json:"timestamp"`
	Messages  []Message       `json:"messages"`
}
