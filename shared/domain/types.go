package domain

import "github.com/google/uuid"

type (
	Email    = string
	Password = string
	UserId   = uuid.UUID

	InspectionId = uuid.UUID
)
