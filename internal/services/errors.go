package services

import "errors"

// ErrHistoryDisabled is returned when run history is requested without a store
var ErrHistoryDisabled = errors.New("run history is disabled")
