package apperror

import "errors"

var ErrTransactionNotFound = errors.New("transaction not found")
var ErrAcquirerNotFound = errors.New("acquirer not found")
var ErrInvalidState = errors.New("invalid transaction state")
