package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calenhq/calen/internal/llm"
)

func TestDecodeRoute(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		route   Route
		message string
	}{
		{"create route", `{"route": "create"}`, RouteCreate, ""},
		{"list route", `{"route": "list"}`, RouteList, ""},
		{"delete route", `{"route": "delete"}`, RouteDelete, ""},
		{"update route", `{"route": "update"}`, RouteUpdate, ""},
		{"unknown route degrades", `{"route": "schedule"}`, "", msgGenericError},
		{"message object", `{"message": "Hangi tarih?"}`, "", "Hangi tarih?"},
		{"bare string reply", `"Merhaba!"`, "", "Merhaba!"},
		{"empty object", `{}`, "", msgGenericError},
		{"garbage", `route=create`, "", msgGenericError},
		{"surrounding whitespace", "  {\"route\": \"list\"}\n", RouteList, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeRoute(tt.raw)
			require.Equal(t, tt.route, got.Route)
			require.Equal(t, tt.message, got.Message)
		})
	}
}

func TestDecodeExtraction(t *testing.T) {
	const fallback = "fallback"

	t.Run("function call", func(t *testing.T) {
		res := decodeExtraction(`{"function": "get_events", "arguments": {"startDate": "x"}}`, fallback)
		require.True(t, res.IsCall())
		require.Equal(t, "get_events", res.Function)
		require.JSONEq(t, `{"startDate": "x"}`, string(res.Arguments))
	})

	t.Run("message wins when no call", func(t *testing.T) {
		res := decodeExtraction(`{"message": "Biraz daha detay verir misiniz?"}`, fallback)
		require.False(t, res.IsCall())
		require.Equal(t, "Biraz daha detay verir misiniz?", res.Message)
	})

	t.Run("function without arguments falls back", func(t *testing.T) {
		res := decodeExtraction(`{"function": "get_events"}`, fallback)
		require.False(t, res.IsCall())
		require.Equal(t, fallback, res.Message)
	})

	t.Run("malformed json falls back", func(t *testing.T) {
		res := decodeExtraction(`"function": oops`, fallback)
		require.False(t, res.IsCall())
		require.Equal(t, fallback, res.Message)
	})
}

func TestCallAndClarificationShapes(t *testing.T) {
	call := Call("delete_events", json.RawMessage(`{}`))
	require.True(t, call.IsCall())
	require.Equal(t, KindCall, call.Kind)

	msg := Clarification("hangi etkinlik?")
	require.False(t, msg.IsCall())
	require.Equal(t, KindMessage, msg.Kind)
	require.Equal(t, "hangi etkinlik?", msg.Message)
}

func TestWithSystemReplacesLeadingSystemMessage(t *testing.T) {
	base := []llm.Message{
		llm.System("old instructions"),
		llm.User("merhaba"),
		llm.Assistant("selam"),
	}

	out := withSystem(base, "new instructions")
	require.Len(t, out, 3)
	require.Equal(t, llm.RoleSystem, out[0].Role)
	require.Equal(t, "new instructions", out[0].Content)

	// The input slice is not mutated.
	require.Equal(t, "old instructions", base[0].Content)
}

func TestWithSystemPrependsWhenMissing(t *testing.T) {
	base := []llm.Message{llm.User("merhaba")}

	out := withSystem(base, "instructions")
	require.Len(t, out, 2)
	require.Equal(t, llm.RoleSystem, out[0].Role)
	require.Equal(t, llm.RoleUser, out[1].Role)
}

func TestTurnStateSuccessIsMonotonic(t *testing.T) {
	st := newTurnState(TurnInput{OwnerID: testOwner, Text: "x"})
	require.False(t, st.result.Success)
	st.succeed()
	st.say("bitti")
	require.True(t, st.result.Success)
	require.Equal(t, "bitti", st.result.Message)
}
