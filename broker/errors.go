package broker

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies a rejected trade.
type ErrorKind int

const (
	UnknownSymbol ErrorKind = iota + 1
	InsufficientFunds
	InsufficientShares
	NoPosition
	InvalidQuantity
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownSymbol:
		return "UnknownSymbol"
	case InsufficientFunds:
		return "InsufficientFunds"
	case InsufficientShares:
		return "InsufficientShares"
	case NoPosition:
		return "NoPosition"
	case InvalidQuantity:
		return "InvalidQuantity"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoPosition         = errors.New("no position")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case UnknownSymbol:
		return ErrUnknownSymbol
	case InsufficientFunds:
		return ErrInsufficientFunds
	case InsufficientShares:
		return ErrInsufficientShares
	case NoPosition:
		return ErrNoPosition
	case InvalidQuantity:
		return ErrInvalidQuantity
	}
	return nil
}

// TradeError is returned for every rejected trade. Requested and Available
// carry the amounts that failed the check: cash for InsufficientFunds,
// shares for InsufficientShares.
type TradeError struct {
	Kind      ErrorKind
	Symbol    string
	Side      Side
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *TradeError) Error() string {
	switch e.Kind {
	case InsufficientFunds:
		return fmt.Sprintf("%s %s: insufficient funds: need %s, have %s",
			e.Side, e.Symbol, e.Requested.StringFixed(2), e.Available.StringFixed(2))
	case InsufficientShares:
		return fmt.Sprintf("%s %s: insufficient shares: requested %s, hold %s",
			e.Side, e.Symbol, e.Requested, e.Available)
	case InvalidQuantity:
		return fmt.Sprintf("%s %s: quantity must be positive, got %s", e.Side, e.Symbol, e.Requested)
	}
	if e.Side == "" {
		return fmt.Sprintf("%s: %v", e.Symbol, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s %s: %v", e.Side, e.Symbol, e.Kind.sentinel())
}

func (e *TradeError) Unwrap() error { return e.Kind.sentinel() }

// KindOf returns the ErrorKind of err, or 0 if err is not a TradeError.
func KindOf(err error) ErrorKind {
	var te *TradeError
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
