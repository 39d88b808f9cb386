package value

import "strings"

const (
	walletMinLen = 48
	walletMaxLen = 66
)

// IsWalletAddress — синтаксическая проверка TON-адреса: либо ton://-ссылка,
// либо голый токен длиной 48..66 из [A-Za-z0-9-_:]. Ни сети, ни криптографию
// мы не трогаем — это только фильтр от явного мусора.
func IsWalletAddress(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	if strings.HasPrefix(strings.ToLower(s), "ton://") {
		return true
	}

	if len(s) < walletMinLen || len(s) > walletMaxLen {
		return false
	}

	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == ':':
		default:
			return false
		}
	}

	return true
}
