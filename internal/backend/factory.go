package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/adapters"
	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/seed"
	"gastos/internal/services"
	"gastos/internal/store/memory"
	"gastos/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without a broker the service still writes locally
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	service := services.NewTransactionService(sqliteRepo, amqpClient)
	adapter := adapters.NewSQLiteAdapter(sqliteRepo, service)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Backend: adapter,
		Cleanup: service.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	months := config.SeedMonths
	if months <= 0 {
		months = 3
	}

	st := memory.NewSeeded(seed.Transactions(time.Now(), months, 1))

	if settings, ok := initialSettings(config); ok {
		if err := st.SaveSettings(context.Background(), settings); err != nil {
			f.logger.Warn("Ignoring invalid initial settings", "error", err)
		}
	}

	f.logger.Info("Initialized memory backend", "seed_months", months)

	return &BackendResult{
		Backend: st,
		Cleanup: func() error { return nil },
	}, nil
}

// initialSettings parses the configured income and savings goal. Both
// must be present and parseable, otherwise the store keeps its defaults.
func initialSettings(config Config) (core.BudgetSettings, bool) {
	if config.MonthlyIncome == "" || config.SavingsGoal == "" {
		return core.BudgetSettings{}, false
	}
	income, err := decimal.NewFromString(config.MonthlyIncome)
	if err != nil {
		return core.BudgetSettings{}, false
	}
	goal, err := decimal.NewFromString(config.SavingsGoal)
	if err != nil {
		return core.BudgetSettings{}, false
	}
	return core.BudgetSettings{MonthlyIncome: income, SavingsGoal: goal}, true
}
