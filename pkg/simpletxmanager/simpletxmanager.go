// Package simpletxmanager is a passthrough transaction manager for storage
// drivers that have no transactions (the in-memory repositories). The booking
// critical section is still serialized per facility by the orchestrator's
// keyed mutex; this manager only satisfies the TransactionManager contract.
package simpletxmanager

import "context"

// TransactionManager выполняет функции без транзакций
type TransactionManager struct{}

// NewTransactionManager создает новый passthrough менеджер
func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

// Do выполняет fn напрямую
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// DoSerializable выполняет fn напрямую
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// DoReadOnly выполняет fn напрямую
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
