package services

import (
	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/notifications"
)

// Notifier ставит уведомление в очередь на асинхронную доставку.
type Notifier interface {
	Dispatch(kind notifications.Kind, order *models.Order)
}
