package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Коды модуля сделок.
	DealNotFound        failure.ErrorCode = "DealNotFound"        // Сделки нет в живом реестре (истекла или завершена)
	DealExpired         failure.ErrorCode = "DealExpired"         // Дедлайн прошёл, но sweep ещё не убрал
	DealConflict        failure.ErrorCode = "DealConflict"        // Гард не прошёл: сделку уже продвинул другой переход
	DealProcessing      failure.ErrorCode = "DealProcessing"      // Идёт подтверждение отправки, попробуйте позже
	InvalidDealID       failure.ErrorCode = "InvalidDealID"       // Мусор вместо идентификатора
	InvalidWallet       failure.ErrorCode = "InvalidWallet"       // Не похоже на TON-адрес
	InvalidPrice        failure.ErrorCode = "InvalidPrice"        // Не распарсилось число
	InvalidRecipient    failure.ErrorCode = "InvalidRecipient"    // Получатель не в формате @username
	InvalidSettleMethod failure.ErrorCode = "InvalidSettleMethod" // Метод расчёта вне списка
	WalletRequired      failure.ErrorCode = "WalletRequired"      // Продавец ещё не указал кошелёк
	DraftNotFound       failure.ErrorCode = "DraftNotFound"       // Нет черновика у создателя
	DraftIncomplete     failure.ErrorCode = "DraftIncomplete"     // Черновик без обязательных полей
	MemoUnavailable     failure.ErrorCode = "MemoUnavailable"     // MEMO ещё не сгенерирован
)
