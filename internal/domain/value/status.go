package value

// DealStatus — фиксированный пятизначный жизненный цикл сделки.
type DealStatus string

const (
	StatusNew              DealStatus = "new"
	StatusAwaitPayment     DealStatus = "await_payment"
	StatusAwaitSellerFinal DealStatus = "await_seller_final"
	StatusDone             DealStatus = "done"
	StatusStopped          DealStatus = "stopped"
)

func (s DealStatus) String() string {
	return string(s)
}

// IsTerminal: done и stopped — конечные, сделка после них неизменяема.
func (s DealStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusStopped
}

func (s DealStatus) Valid() bool {
	switch s {
	case StatusNew, StatusAwaitPayment, StatusAwaitSellerFinal, StatusDone, StatusStopped:
		return true
	}
	return false
}
