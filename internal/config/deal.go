package config

import "time"

// Deal — тайм-боксы жизненного цикла сделки.
type Deal struct {
	LinkTTL          time.Duration `env:"DEAL_LINK_TTL" envDefault:"30m"`
	SellerConfirmTTL time.Duration `env:"DEAL_SELLER_CONFIRM_TTL" envDefault:"15m"`
	SweepInterval    time.Duration `env:"DEAL_SWEEP_INTERVAL" envDefault:"5s"`
	ConfirmDelayMin  time.Duration `env:"DEAL_CONFIRM_DELAY_MIN" envDefault:"4s"`
	ConfirmDelayMax  time.Duration `env:"DEAL_CONFIRM_DELAY_MAX" envDefault:"7s"`
	HistoryLimit     int           `env:"DEAL_HISTORY_LIMIT" envDefault:"50"`
}
