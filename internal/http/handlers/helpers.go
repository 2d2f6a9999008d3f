package handlers

import "github.com/google/uuid"

// mustUUID разбирает строку, уже проверенную binding:"uuid".
func mustUUID(raw string) uuid.UUID {
	id, _ := uuid.Parse(raw)
	return id
}

// parseUUIDs разбирает список идентификаторов, уже проверенных binding:"dive,uuid".
func parseUUIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		ids = append(ids, mustUUID(v))
	}
	return ids
}
