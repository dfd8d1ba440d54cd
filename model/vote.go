package model

import "time"

// Vote is one voter's yes/no on a dish. CastOn is the calendar day of CastAt
// in the service time zone; (DishID, VoterID, CastOn) is unique.
type Vote struct {
	ID      uint      `json:"id_voto" gorm:"column:id_voto;primaryKey"`
	DishID  uint      `json:"id_prato" gorm:"column:id_prato;not null;uniqueIndex:uq_votacao_diaria,priority:1"`
	Approve bool      `json:"voto" gorm:"column:voto;not null"`
	CastAt  time.Time `json:"data_voto" gorm:"column:data_voto;not null"`
	VoterID string    `json:"ip_usuario" gorm:"column:ip_usuario;not null;uniqueIndex:uq_votacao_diaria,priority:2"`
	CastOn  Date      `json:"-" gorm:"column:dia_voto;not null;uniqueIndex:uq_votacao_diaria,priority:3"`
}

func (Vote) TableName() string {
	return "votacao_tb"
}

// DishTally is the yes/no count of one dish for one day.
type DishTally struct {
	DishID   uint   `json:"id_prato"`
	Main     string `json:"principal"`
	YesCount int    `json:"votos_sim"`
	NoCount  int    `json:"votos_nao"`
}
