package users_models

// SecretKey holds the HS256 secret shared with the external auth service.
type SecretKey struct {
	Secret string `gorm:"column:secret"`
}

func (SecretKey) TableName() string {
	return "secret_keys"
}
