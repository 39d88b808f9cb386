package memstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain/value"
	"tg_garant/internal/infrastructure/memstore"
)

func TestPartyStoreLazyDefaults(t *testing.T) {
	rq := require.New(t)

	s := memstore.NewPartyStore()

	p := s.Get(1217838677)
	rq.EqualValues(1217838677, p.ID)
	rq.Equal(value.LangRU, p.Lang)
	rq.Equal(value.MethodTON, p.Method)
	rq.Equal("id1217838677", p.Username)
	rq.Empty(p.Wallet)
}

func TestPartyStoreUpdates(t *testing.T) {
	rq := require.New(t)

	s := memstore.NewPartyStore()

	s.SetLang(1, value.LangEN)
	s.SetMethod(1, value.MethodExchange)
	s.SetWallet(1, "ton://transfer/EQabc")
	s.RememberUsername(1, "alice")
	s.RememberUsername(1, "") // не затирает

	p := s.Get(1)
	rq.Equal(value.LangEN, p.Lang)
	rq.Equal(value.MethodExchange, p.Method)
	rq.Equal("ton://transfer/EQabc", p.Wallet)
	rq.Equal("@alice", p.Username)
}

func TestPartyStoreSwapWarning(t *testing.T) {
	rq := require.New(t)

	s := memstore.NewPartyStore()

	rq.Zero(s.SwapWarning(1, 100))
	rq.Equal(100, s.SwapWarning(1, 200))
	rq.Equal(200, s.SwapWarning(1, 0))
	rq.Zero(s.Get(1).WarningRef)
}
