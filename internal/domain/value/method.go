package value

// SettleMethod — способ расчёта по сделке. EXCHANGE означает бартер:
// вместо цены хранится текст условий обмена.
type SettleMethod string

const (
	MethodRUB      SettleMethod = "RUB"
	MethodUSD      SettleMethod = "USD"
	MethodKZT      SettleMethod = "KZT"
	MethodStars    SettleMethod = "STARS"
	MethodTON      SettleMethod = "TON"
	MethodExchange SettleMethod = "EXCHANGE"
)

func (m SettleMethod) String() string {
	return string(m)
}

func (m SettleMethod) IsExchange() bool {
	return m == MethodExchange
}

func (m SettleMethod) Valid() bool {
	switch m {
	case MethodRUB, MethodUSD, MethodKZT, MethodStars, MethodTON, MethodExchange:
		return true
	}
	return false
}

func ParseSettleMethod(s string) (SettleMethod, bool) {
	m := SettleMethod(s)
	return m, m.Valid()
}
