package value_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain/value"
)

func TestIsWalletAddress(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{"Scheme prefix", "ton://transfer/EQCcLAW537KnRg", true},
		{"Scheme prefix uppercase", "TON://transfer/EQCcLAW537KnRg", true},
		{"Exactly 48 alnum", strings.Repeat("a", 48), true},
		{"Exactly 66 alnum", strings.Repeat("Z", 66), true},
		{"47 too short", strings.Repeat("a", 47), false},
		{"67 too long", strings.Repeat("a", 67), false},
		{"Allowed punctuation", strings.Repeat("a", 45) + "-_:", true},
		{"Forbidden char", strings.Repeat("a", 47) + "!", false},
		{"Spaces inside", strings.Repeat("a", 24) + " " + strings.Repeat("a", 24), false},
		{"Surrounding whitespace trimmed", "  " + strings.Repeat("b", 50) + "\n", true},
		{"Empty", "", false},
		{"Blank", "   ", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, value.IsWalletAddress(tc.input), "input %q", tc.input)
		})
	}
}

func TestParseSettleMethod(t *testing.T) {
	rq := require.New(t)

	for _, s := range []string{"RUB", "USD", "KZT", "STARS", "TON", "EXCHANGE"} {
		m, ok := value.ParseSettleMethod(s)
		rq.True(ok)
		rq.Equal(s, m.String())
	}

	_, ok := value.ParseSettleMethod("BTC")
	rq.False(ok)

	rq.True(value.MethodExchange.IsExchange())
	rq.False(value.MethodTON.IsExchange())
}

func TestDealStatus(t *testing.T) {
	rq := require.New(t)

	for _, s := range []value.DealStatus{
		value.StatusNew,
		value.StatusAwaitPayment,
		value.StatusAwaitSellerFinal,
		value.StatusDone,
		value.StatusStopped,
	} {
		rq.True(s.Valid())
	}

	rq.False(value.DealStatus("paid").Valid())

	rq.True(value.StatusDone.IsTerminal())
	rq.True(value.StatusStopped.IsTerminal())
	rq.False(value.StatusNew.IsTerminal())
	rq.False(value.StatusAwaitPayment.IsTerminal())
}
