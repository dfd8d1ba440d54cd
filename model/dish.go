package model

type Shift string

const (
	ShiftMorning   Shift = "Manhã"
	ShiftAfternoon Shift = "Tarde"
	ShiftNight     Shift = "Noturno"
)

var Shifts = []Shift{ShiftMorning, ShiftAfternoon, ShiftNight}

func (s Shift) Valid() bool {
	for _, v := range Shifts {
		if s == v {
			return true
		}
	}
	return false
}

// Dish is one menu offering for a day and shift. OwnerID is set at creation
// and never rewritten.
type Dish struct {
	ID      uint    `json:"id_prato" gorm:"column:id_prato;primaryKey"`
	Day     Date    `json:"dia" gorm:"column:dia;not null;index"`
	Shift   Shift   `json:"turno" gorm:"column:turno;not null"`
	Main    string  `json:"principal" gorm:"column:principal;not null"`
	Dessert string  `json:"sobremesa" gorm:"column:sobremesa;not null"`
	Drink   string  `json:"bebida" gorm:"column:bebida;not null"`
	Image   *string `json:"imagem" gorm:"column:imagem"`
	OwnerID uint    `json:"id_usuario" gorm:"column:id_usuario;not null;index"`
	Owner   *Cook   `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Dish) TableName() string {
	return "prato_tb"
}
