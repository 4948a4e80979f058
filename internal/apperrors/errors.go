package apperrors

import "errors"

// ErrAccountNotFound indicates that the referenced account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// ErrRateNotFound indicates that no rate row exists for the base currency.
var ErrRateNotFound = errors.New("rate not found")

// ErrCurrencyUnknown indicates that a currency has no pre-registered rate row.
// Rates can only be set between currencies seeded at startup; there is no
// implicit creation path.
var ErrCurrencyUnknown = errors.New("currency unknown")

// ErrPairNotQuoted indicates that the base currency row exists but carries no
// quote for the requested counter currency.
var ErrPairNotQuoted = errors.New("currency pair not quoted")

// ErrDuplicateCurrency indicates more than one internal account exists for a
// single currency. The ledger assumes exactly one; duplicates are a
// configuration error and must never be resolved by picking one silently.
var ErrDuplicateCurrency = errors.New("duplicate internal account for currency")

// ErrCompensationFailed indicates a compensating transfer failed after a
// partially completed exchange. The client may be left debited; callers must
// escalate this, never swallow it.
var ErrCompensationFailed = errors.New("compensation transfer failed")

// ErrCacheUnavailable indicates the cache backend could not be reached for an
// operation where silently falling back to the store is not safe.
var ErrCacheUnavailable = errors.New("cache unavailable")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")
