package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner - учётная запись владельца фотоателье.
// Ателье обслуживается одним владельцем, поэтому регистрация
// открыта только до появления первой учётной записи.
type Owner struct {
	ID           uuid.UUID `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// CredentialsRequest - логин и пароль владельца.
// Один и тот же формат используется для регистрации и входа.
type CredentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
