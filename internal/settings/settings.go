// Package settings holds scalar user preferences backed by the store, each
// independently persisted and independently broadcast on change.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/store"
)

// Currency is an ISO 4217 code from the supported set.
type Currency string

// Supported currencies.
const (
	INR Currency = "INR"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
)

var currencySymbols = map[Currency]string{
	INR: "₹",
	USD: "$",
	EUR: "€",
	GBP: "£",
	JPY: "¥",
}

// Symbol returns the display symbol for the currency. Unrecognized codes
// fall back to the INR symbol.
func (c Currency) Symbol() string {
	if sym, ok := currencySymbols[c]; ok {
		return sym
	}
	return currencySymbols[INR]
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Settings reads and writes user preferences.
type Settings struct {
	store store.Store
	bus   *bus.Bus
}

// New creates a Settings model over the given store and bus.
func New(s store.Store, b *bus.Bus) *Settings {
	return &Settings{store: s, bus: b}
}

// DarkMode reports whether dark mode is enabled. Missing or corrupt values
// default to false.
func (s *Settings) DarkMode(ctx context.Context) (bool, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyDarkMode)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("discarding corrupt stored value", "key", store.KeyDarkMode, "error", err)
		return false, nil
	}
	return enabled, nil
}

// SetDarkMode persists the flag and broadcasts the change with the new
// value as the event detail.
func (s *Settings) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := s.store.Set(ctx, store.KeyDarkMode, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	s.bus.Publish(bus.Event{Topic: bus.TopicDarkModeChanged, Detail: enabled})
	return nil
}

// Currency returns the selected currency code, defaulting to INR.
func (s *Settings) Currency(ctx context.Context) (Currency, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyCurrency)
	if err != nil {
		return INR, err
	}
	if !ok || raw == "" {
		return INR, nil
	}
	return Currency(raw), nil
}

// SetCurrency persists a supported currency code and broadcasts the change.
func (s *Settings) SetCurrency(ctx context.Context, c Currency) error {
	if !c.Valid() {
		return common.ValidationError("currency", fmt.Sprintf("%q is not supported", c))
	}
	if err := s.store.Set(ctx, store.KeyCurrency, string(c)); err != nil {
		return err
	}
	s.bus.Publish(bus.Event{Topic: bus.TopicCurrencyChanged, Detail: string(c)})
	return nil
}

// EmailNotifications reports the notification preference. Only the literal
// string "false" disables it; absence or anything else means enabled.
func (s *Settings) EmailNotifications(ctx context.Context) (bool, error) {
	raw, _, err := s.store.Get(ctx, store.KeyEmailNotifications)
	if err != nil {
		return true, err
	}
	return raw != "false", nil
}

// SetEmailNotifications persists the notification preference.
func (s *Settings) SetEmailNotifications(ctx context.Context, enabled bool) error {
	return s.store.Set(ctx, store.KeyEmailNotifications, strconv.FormatBool(enabled))
}

// FormatAmount renders an amount with the currency symbol and thousands
// separators, e.g. "₹1,234.56".
func (c Currency) FormatAmount(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(c.Symbol())
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
