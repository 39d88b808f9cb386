package deal

import (
	"time"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/internal/domain/value"
	"tg_garant/pkg/errcodes"
)

// Гарды — чистые функции от снимка сделки и события. Реестр вызывает их
// в той же критической секции, что и мутацию, поэтому повторная доставка
// действия или проигранная гонка всегда отбиваются здесь, а не порождают
// второй эффект.

func errConflict() error {
	return domain.NewError(errcodes.DealConflict, "deal already advanced")
}

func errProcessing() error {
	return domain.NewError(errcodes.DealProcessing, "deal is processing, retry later")
}

func errExpired() error {
	return domain.NewError(errcodes.DealExpired, "deal expired")
}

func errForbidden() error {
	return domain.NewError(errcodes.Forbidden, "action not available for this actor")
}

func canSubmitWallet(d entity.Deal, now time.Time) error {
	switch {
	case d.Status != value.StatusNew:
		return errConflict()
	case d.Processing:
		return errProcessing()
	case d.Expired(now):
		return errExpired()
	}

	return nil
}

func canAccept(d entity.Deal, actorID int64) error {
	switch {
	case d.Status != value.StatusNew:
		return errConflict()
	case !d.HasSeller() || d.SellerWallet == "":
		return domain.NewError(errcodes.WalletRequired, "seller wallet not set")
	case actorID != d.SellerID:
		return errForbidden()
	}

	return nil
}

func canStop(d entity.Deal, actorID int64) error {
	switch {
	case d.Status.IsTerminal():
		return errConflict()
	case d.Processing:
		return errProcessing()
	case actorID != d.CreatorID && actorID != d.SellerID:
		return errForbidden()
	}

	return nil
}

func canConfirmShipment(d entity.Deal, actorID int64, now time.Time) error {
	switch {
	case d.Status != value.StatusNew:
		return errConflict()
	case d.Processing:
		return errProcessing()
	case d.Expired(now):
		return errExpired()
	case d.SellerWallet == "":
		return domain.NewError(errcodes.WalletRequired, "seller wallet not set")
	case actorID != d.SellerID:
		return errForbidden()
	}

	return nil
}

// canFinishProcessing — вторая фаза подтверждения отправки, после паузы.
func canFinishProcessing(d entity.Deal) error {
	if d.Status != value.StatusNew || !d.Processing {
		return errConflict()
	}

	return nil
}

func canMarkPaid(d entity.Deal, actorID int64, now time.Time) error {
	switch {
	case d.Status != value.StatusAwaitPayment:
		return errConflict()
	case d.Expired(now):
		return errExpired()
	case actorID != d.CreatorID:
		return errForbidden()
	}

	return nil
}

func canConfirmReceipt(d entity.Deal, actorID int64) error {
	switch {
	case d.Status != value.StatusAwaitSellerFinal:
		return errConflict()
	case actorID != d.SellerID:
		return errForbidden()
	}

	return nil
}
