package value_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tg_garant/internal/domain/value"
)

func TestNewDealIDUnique(t *testing.T) {
	rq := require.New(t)

	const n = 10000

	seen := make(map[value.DealID]struct{}, n)

	for range n {
		id, err := value.NewDealID()
		rq.NoError(err)
		rq.False(id.IsZero())

		_, dup := seen[id]
		rq.False(dup, "duplicate deal id %q", id)

		seen[id] = struct{}{}
	}
}

func TestNewDealIDURLSafe(t *testing.T) {
	rq := require.New(t)

	const urlSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	for range 100 {
		id, err := value.NewDealID()
		rq.NoError(err)

		for _, c := range id.String() {
			rq.True(strings.ContainsRune(urlSafe, c), "unexpected char %q in %q", c, id)
		}
	}
}

func TestParseDealID(t *testing.T) {
	rq := require.New(t)

	id, err := value.NewDealID()
	rq.NoError(err)

	parsed, err := value.ParseDealID(id.String())
	rq.NoError(err)
	rq.Equal(id, parsed)

	_, err = value.ParseDealID("")
	rq.Error(err)

	_, err = value.ParseDealID("not base64 ###")
	rq.Error(err)
}

func TestNewMemoCode(t *testing.T) {
	rq := require.New(t)

	memo, err := value.NewMemoCode()
	rq.NoError(err)
	rq.True(strings.HasPrefix(memo.String(), "MG-"))
	rq.Len(memo.String(), 9)

	other, err := value.NewMemoCode()
	rq.NoError(err)
	rq.NotEqual(memo, other)
}
