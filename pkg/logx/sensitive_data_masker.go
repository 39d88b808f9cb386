package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

// Кошельки и MEMO-коды не должны утекать в HTTP-логи.
//
//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)(Authorization: Bearer ).+?(\r)"),
	regexp.MustCompile(`(?s)("[Ss]ellerWallet":\s?").+?(")`),
	regexp.MustCompile(`(?s)("[Ww]allet":\s?").+?(")`),
	regexp.MustCompile(`(?s)("[Mm]emo":\s?").+?(")`),
	regexp.MustCompile(`(?s)("deepLink":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
