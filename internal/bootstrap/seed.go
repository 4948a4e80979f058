package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/arvault/exchange-service/internal/core/domain"
	portsrepo "github.com/arvault/exchange-service/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Seed file names, relative to the configured seed directory.
const (
	accountsFile = "accounts.json"
	ratesFile    = "rates.json"
	logFile      = "log.json"
)

type seedAccount struct {
	ID       string          `json:"id"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// Seeder loads the initial accounts, rate table and transaction log from disk
// when the store is completely empty. It runs exactly once per process, at
// startup, and is a no-op on any subsequent start against a populated store.
type Seeder struct {
	accounts portsrepo.AccountRepositoryFacade
	rates    portsrepo.RateRepositoryFacade
	log      portsrepo.ExchangeLogRepositoryFacade
	dir      string
	logger   *slog.Logger
}

// NewSeeder creates a Seeder reading seed files from dir.
func NewSeeder(
	accounts portsrepo.AccountRepositoryFacade,
	rates portsrepo.RateRepositoryFacade,
	log portsrepo.ExchangeLogRepositoryFacade,
	dir string,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{accounts: accounts, rates: rates, log: log, dir: dir, logger: logger}
}

// Run seeds the store from disk if and only if accounts, rates and the log
// are all empty. A partially populated store is left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	existingAccounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing accounts: %w", err)
	}
	existingRates, err := s.rates.ListRateRows(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing rates: %w", err)
	}
	existingLog, err := s.log.ListResults(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing log: %w", err)
	}

	if len(existingAccounts) > 0 || len(existingRates) > 0 || len(existingLog) > 0 {
		s.logger.Info("Store already populated, skipping seed")
		return nil
	}

	s.logger.Info("Empty store, seeding from disk", slog.String("dir", s.dir))

	if err := s.seedAccounts(ctx); err != nil {
		return err
	}
	if err := s.seedRates(ctx); err != nil {
		return err
	}
	if err := s.seedLog(ctx); err != nil {
		return err
	}

	s.logger.Info("Seed complete")
	return nil
}

func (s *Seeder) seedAccounts(ctx context.Context) error {
	var seeds []seedAccount
	if err := s.readJSON(accountsFile, &seeds); err != nil {
		return err
	}

	now := time.Now().UTC()
	seen := make(map[string]string, len(seeds))
	for _, seed := range seeds {
		// One internal account per currency is a hard startup requirement;
		// a duplicate is a configuration error, not something to pick from.
		if other, dup := seen[seed.Currency]; dup {
			return fmt.Errorf("seed accounts: currency %s appears on both %s and %s", seed.Currency, other, seed.ID)
		}
		seen[seed.Currency] = seed.ID

		account := domain.Account{
			AccountID:    seed.ID,
			CurrencyCode: seed.Currency,
			Balance:      seed.Balance,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.accounts.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("seed accounts: %w", err)
		}
	}

	s.logger.Info("Seeded accounts", slog.Int("count", len(seeds)))
	return nil
}

func (s *Seeder) seedRates(ctx context.Context) error {
	var table map[string]map[string]decimal.Decimal
	if err := s.readJSON(ratesFile, &table); err != nil {
		return err
	}

	if err := validateReciprocity(table); err != nil {
		return fmt.Errorf("seed rates: %w", err)
	}

	now := time.Now().UTC()
	for base, quotes := range table {
		row := domain.RateRow{
			BaseCurrency: base,
			Rates:        quotes,
			UpdatedAt:    now,
		}
		if err := s.rates.SaveRateRow(ctx, row); err != nil {
			return fmt.Errorf("seed rates: %w", err)
		}
	}

	s.logger.Info("Seeded rate rows", slog.Int("count", len(table)))
	return nil
}

func (s *Seeder) seedLog(ctx context.Context) error {
	var results []domain.ExchangeResult
	if err := s.readJSON(logFile, &results); err != nil {
		if os.IsNotExist(err) {
			// The log seed is optional; a fresh deployment starts empty.
			return nil
		}
		return err
	}

	for _, result := range results {
		if err := s.log.AppendResult(ctx, result); err != nil {
			return fmt.Errorf("seed log: %w", err)
		}
	}

	s.logger.Info("Seeded log entries", slog.Int("count", len(results)))
	return nil
}

func (s *Seeder) readJSON(name string, target any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("failed to read seed file %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", name, err)
	}
	return nil
}

// validateReciprocity checks that whenever the seed quotes both directions of
// a pair, one side is the rounded reciprocal of the other. Rounding is not
// symmetric, so either derivation direction is accepted.
func validateReciprocity(table map[string]map[string]decimal.Decimal) error {
	for base, quotes := range table {
		for counter, rate := range quotes {
			if rate.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("rate %s→%s must be positive, got %s", base, counter, rate)
			}
			inverse, ok := table[counter][base]
			if !ok {
				continue
			}
			if !inverse.Equal(domain.Reciprocal(rate)) && !rate.Equal(domain.Reciprocal(inverse)) {
				return fmt.Errorf("rates %s→%s = %s and %s→%s = %s are not reciprocal", base, counter, rate, counter, base, inverse)
			}
		}
	}
	return nil
}
