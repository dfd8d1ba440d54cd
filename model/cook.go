package model

// Cook owns dishes and signs in to manage them.
type Cook struct {
	ID           uint   `json:"id_usuario" gorm:"column:id_usuario;primaryKey"`
	Name         string `json:"nome" gorm:"column:nome;not null"`
	Email        string `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:senha;not null"`
}

func (Cook) TableName() string {
	return "cozinheira_tb"
}

// Identity is what a verified session token says about its bearer.
type Identity struct {
	CookID uint
	Email  string
}
