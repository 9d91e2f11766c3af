package matches

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/tractor-swipe/backend/internal/analysis/mood"
	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
)

func TestReplierPrefersComplementaryMood(t *testing.T) {
	p := profile.Profile{
		ID:   1,
		Name: "Fergie",
		ResponseMessages: []string{
			"Back in my day we courted with a three-point hitch.",
			"Calm down, youngster, good things take time.",
		},
	}
	r := Replier{Random: rand.New(rand.NewPCG(1, 2))}

	for i := 0; i < 20; i++ {
		reply, ok := r.Pick(p, "I'm so angry, the baler broke")
		require.True(t, ok)
		assert.Equal(t, "Calm down, youngster, good things take time.", reply.Content)
		assert.Equal(t, mood.Comfort, reply.Mood)
	}
}

func TestReplierFallsBackToAnyResponse(t *testing.T) {
	p := profile.DiagnosticProfile()
	r := Replier{Random: rand.New(rand.NewPCG(9, 9))}

	reply, ok := r.Pick(p, "hello")
	require.True(t, ok)
	assert.Equal(t, p.ResponseMessages[0], reply.Content)
}

func TestReplierWithoutResponses(t *testing.T) {
	r := Replier{Random: rand.New(rand.NewPCG(1, 1))}
	_, ok := r.Pick(profile.Profile{ID: 5}, "hi")
	assert.False(t, ok)
}
