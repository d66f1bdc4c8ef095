package domain

// User represents an authenticated operator of the pipeline
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
