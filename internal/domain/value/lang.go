package value

type Lang string

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
)

func (l Lang) String() string {
	return string(l)
}

// OrDefault: неизвестный язык считаем русским, как и при первом контакте.
func (l Lang) OrDefault() Lang {
	if l == LangEN {
		return LangEN
	}
	return LangRU
}
