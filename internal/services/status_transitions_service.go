package services

import "maidscentre/internal/models"

// Допустимые переходы статусов тикета. Закрытый тикет админ может переоткрыть.
var TicketTransitions = map[string]map[string]bool{
	string(models.TicketOpen):       {string(models.TicketInProgress): true, string(models.TicketClosed): true},
	string(models.TicketInProgress): {string(models.TicketOpen): true, string(models.TicketClosed): true},
	string(models.TicketClosed):     {string(models.TicketOpen): true},
}

func canTransition(current, to string, table map[string]map[string]bool) bool {
	if current == "" {
		// если в БД пусто — разрешим любой известный статус
		_, ok := table[to]
		return ok
	}
	if current == to {
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}
