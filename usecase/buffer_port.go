package usecase

import (
	"context"

	"github.com/startsmart/backend/domain"
)

// Buffered operation names shared with the offline buffer.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline buffer so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.ComplianceTask) error
	BufferProfile(ctx context.Context, operation string, profile *domain.BusinessCompliance) error
}
