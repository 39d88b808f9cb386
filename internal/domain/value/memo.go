package value

import (
	"crypto/rand"
	"fmt"
)

const (
	memoPrefix = "MG-"
	memoLen    = 6
	// Без нулей и букв O/I, чтобы код легко переписывался вручную.
	memoAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ123456789"
)

// MemoCode — короткий код для комментария к переводу. Чисто отображаемая
// подсказка для сверки платежа, никакой криптографии за ним нет.
type MemoCode string

func (m MemoCode) String() string {
	return string(m)
}

func (m MemoCode) IsZero() bool {
	return m == ""
}

func NewMemoCode() (MemoCode, error) {
	buf := make([]byte, memoLen)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}

	for i, b := range buf {
		buf[i] = memoAlphabet[int(b)%len(memoAlphabet)]
	}

	return MemoCode(memoPrefix + string(buf)), nil
}
