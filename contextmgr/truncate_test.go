package contextmgr

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/hupe1980/convoagent/core"
	"github.com/hupe1980/convoagent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lenEstimator makes costs easy to reason about: one token per byte.
func lenEstimator(text string) int { return len(text) }

func msg(role core.Role, content string) core.Message { return CreateMessage(role, content) }

func TestCreateMessage(t *testing.T) {
	m := CreateMessage(core.RoleUser, "hello")
	assert.Equal(t, core.Message{Role: core.RoleUser, Content: "hello"}, m)

	// Formatting primitive only: unknown roles pass through untouched.
	assert.Equal(t, core.Role("tool"), CreateMessage("tool", "x").Role)
}

func TestDefaultTokenEstimator(t *testing.T) {
	assert.Equal(t, 0, DefaultTokenEstimator(""))
	assert.Equal(t, 0, DefaultTokenEstimator("abc"))
	assert.Equal(t, 1, DefaultTokenEstimator("abcd"))
	assert.Equal(t, 2, DefaultTokenEstimator("abcdefghi"))
}

func TestEstimateTokens(t *testing.T) {
	h := []core.Message{msg(core.RoleSystem, "abcd"), msg(core.RoleUser, "abcdefgh")}
	assert.Equal(t, 3, EstimateTokens(h, nil))
	assert.Equal(t, 12, EstimateTokens(h, lenEstimator))
	assert.Equal(t, 0, EstimateTokens(nil, lenEstimator))
}

func TestTruncateHistory_Empty(t *testing.T) {
	for _, limit := range []int{0, 1, 1000} {
		out := TruncateHistory(nil, limit, lenEstimator)
		require.NotNil(t, out)
		assert.Empty(t, out)
		assert.Empty(t, TruncateHistory([]core.Message{}, limit, nil))
	}
}

func TestTruncateHistory_KeepsSystemAndNewest(t *testing.T) {
	h := []core.Message{
		msg(core.RoleSystem, "S"),
		msg(core.RoleUser, "A"),
		msg(core.RoleAssistant, "B"),
		msg(core.RoleUser, "C"),
	}

	out := TruncateHistory(h, 2, lenEstimator)
	assert.Equal(t, []core.Message{msg(core.RoleSystem, "S"), msg(core.RoleUser, "C")}, out)
}

func TestTruncateHistory_FitsUntouched(t *testing.T) {
	h := []core.Message{msg(core.RoleSystem, "S"), msg(core.RoleUser, "A"), msg(core.RoleAssistant, "B")}
	out := TruncateHistory(h, 3, lenEstimator)
	assert.Equal(t, h, out)
}

func TestTruncateHistory_OnlySystemOverBudget(t *testing.T) {
	h := []core.Message{msg(core.RoleSystem, "a long system instruction")}

	rep := TruncateHistoryWithReport(h, 0, lenEstimator)
	assert.Equal(t, h, rep.Messages)
	assert.True(t, rep.Degraded)
	assert.Equal(t, 0, rep.Evicted)
	assert.Equal(t, len(h[0].Content), rep.Tokens)
}

func TestTruncateHistory_OversizedSystemStillTrimsConversation(t *testing.T) {
	h := []core.Message{
		msg(core.RoleSystem, "SSSSSSSSSS"),
		msg(core.RoleUser, "A"),
		msg(core.RoleAssistant, "B"),
	}
	rep := TruncateHistoryWithReport(h, 5, lenEstimator)
	assert.Equal(t, []core.Message{h[0]}, rep.Messages)
	assert.Equal(t, 2, rep.Evicted)
	assert.True(t, rep.Degraded)
}

func TestTruncateHistory_ZeroLimitNoSystem(t *testing.T) {
	h := []core.Message{msg(core.RoleUser, "A"), msg(core.RoleAssistant, "B")}
	out := TruncateHistory(h, 0, lenEstimator)
	assert.Empty(t, out)
}

func TestTruncateHistory_ZeroCostMessagesSurviveZeroLimit(t *testing.T) {
	// Costs of zero never push the total over a zero budget.
	h := []core.Message{msg(core.RoleUser, "abc"), msg(core.RoleAssistant, "de")}
	assert.Equal(t, h, TruncateHistory(h, 0, DefaultTokenEstimator))
}

func TestTruncateHistory_SingleOversizedMessage(t *testing.T) {
	h := []core.Message{msg(core.RoleSystem, "S"), msg(core.RoleUser, "way too long for the budget")}
	out := TruncateHistory(h, 5, lenEstimator)
	assert.Equal(t, []core.Message{h[0]}, out)

	out = TruncateHistory(h[1:], 5, lenEstimator)
	assert.Empty(t, out)
}

func TestTruncateHistory_SystemNotAtHeadIsEvictable(t *testing.T) {
	h := []core.Message{msg(core.RoleUser, "A"), msg(core.RoleSystem, "S"), msg(core.RoleUser, "C")}
	out := TruncateHistory(h, 1, lenEstimator)
	assert.Equal(t, []core.Message{msg(core.RoleUser, "C")}, out)
}

func TestTruncateHistory_DoesNotMutateInput(t *testing.T) {
	h := []core.Message{
		msg(core.RoleSystem, "S"),
		msg(core.RoleUser, "A"),
		msg(core.RoleAssistant, "B"),
	}
	snapshot := append([]core.Message(nil), h...)

	out := TruncateHistory(h, 2, lenEstimator)
	assert.Equal(t, snapshot, h)

	// The result must not alias the input.
	out[0].Content = "changed"
	assert.Equal(t, "S", h[0].Content)
}

func TestTruncateHistory_NilEstimatorUsesDefault(t *testing.T) {
	h := []core.Message{msg(core.RoleUser, "aaaaaaaa"), msg(core.RoleUser, "bbbbbbbb")}
	assert.Equal(t, h[1:], TruncateHistory(h, 2, nil))
}

func randomHistory(r *rand.Rand) []core.Message {
	n := r.Intn(12)
	h := make([]core.Message, 0, n+1)
	if r.Intn(2) == 0 {
		h = append(h, msg(core.RoleSystem, randomText(r)))
	}
	for i := 0; i < n; i++ {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		h = append(h, msg(role, randomText(r)))
	}
	return h
}

func randomText(r *rand.Rand) string {
	b := make([]byte, r.Intn(40))
	for i := range b {
		b[i] = byte('a' + r.Intn(26))
	}
	return string(b)
}

func TestTruncateHistory_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		h := randomHistory(r)
		limit := r.Intn(200)

		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			out := TruncateHistory(h, limit, lenEstimator)

			var prefix, conv []core.Message
			if len(h) > 0 && h[0].IsSystem() {
				prefix, conv = h[:1], h[1:]
				require.NotEmpty(t, out)
				assert.Equal(t, h[0], out[0], "system message must survive")
			} else {
				conv = h
			}

			kept := out[len(prefix):]
			require.LessOrEqual(t, len(kept), len(conv))

			// The kept conversation is a suffix of the original.
			assert.Equal(t, conv[len(conv)-len(kept):], kept)

			// Minimality: the kept suffix fits unless it is empty, and one more
			// message would not fit.
			prefixCost := EstimateTokens(prefix, lenEstimator)
			cost := EstimateTokens(out, lenEstimator)
			if len(kept) > 0 {
				assert.LessOrEqual(t, cost, limit)
			}
			if len(kept) < len(conv) {
				longer := conv[len(conv)-len(kept)-1:]
				assert.Greater(t, prefixCost+EstimateTokens(longer, lenEstimator), limit)
			}

			// Idempotence.
			assert.Equal(t, out, TruncateHistory(out, limit, lenEstimator))
		})
	}
}

func TestTruncateHistory_SpecScenarioWithBuilder(t *testing.T) {
	h := testutil.NewHistoryBuilder().System("S").Turns([2]string{"A", "B"}).User("C").Build()

	out := TruncateHistory(h, 2, lenEstimator)
	assert.Equal(t, testutil.NewHistoryBuilder().System("S").User("C").Build(), out)
}
