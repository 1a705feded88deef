package models

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&LineOALink{},
		&RepairTicket{},
		&Attachment{},
		&TicketAssignee{},
		&TicketActivity{},
	}
}
